package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckExisting(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		wantErr bool
		errMsg  []string
	}{
		{
			name:    "no existing files",
			setup:   func(t *testing.T, dir string) {},
			wantErr: false,
		},
		{
			name: "existing pinch.yml only",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "pinch.yml"), []byte("version: '1.0'"), 0644))
			},
			wantErr: true,
			errMsg:  []string{"Found existing: pinch.yml"},
		},
		{
			name: "recordings directory without the example is fine",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "recordings"), 0755))
			},
			wantErr: false,
		},
		{
			name: "both files",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "pinch.yml"), []byte("version: '1.0'"), 0644))
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "recordings"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "recordings", "example.jsonl"), nil, 0644))
			},
			wantErr: true,
			errMsg:  []string{"  - pinch.yml\n", "  - recordings/example.jsonl\n", "pinch init --force"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			err := CheckExisting(dir)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, msg := range tt.errMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}
