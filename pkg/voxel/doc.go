// Package voxel provides the sparse voxel grid, its persisted world format,
// and the file and Redis persisters used by the pinch editing engine.
//
// # Overview
//
// A Store maps integer grid cells to voxels (a colour plus a creation
// timestamp). The grid is cubic and bounded: AddVoxel refuses cells outside
// [0, gridSize) on any axis, so the store never holds an out-of-bounds voxel
// that it placed itself.
//
// Cells are addressed by Key, a "x,y,z" string produced by GridKey and
// decoded by ParseKey. The encoding is injective over all int triples.
//
// # World format
//
// A World is the persisted snapshot of a store:
//
//	{
//	  "version": "1.0",
//	  "gridSize": 16,
//	  "voxels": [{"x":3,"y":0,"z":5,"color":"#FF0000","timestamp":1700000000000}],
//	  "timestamp": 1700000000000
//	}
//
// DecodeWorld rejects any other version and any payload with missing fields.
// ApplyWorld validates before touching the store, so a failed load leaves the
// store exactly as it was.
//
// # Redis Schema
//
// Worlds: pinch:{session}:world (hash: version, grid_size, timestamp)
// Voxels: pinch:{session}:voxels (hash: "x,y,z" -> {"color":..,"timestamp":..})
// Events: pinch:{session}:world_events (Pub/Sub, JSON WorldEvent)
//
// # Usage Example
//
//	store, _ := voxel.NewStore(16, clock.NewSystem())
//	store.AddVoxel(3, 0, 5, voxel.MustParseColor("#FF0000"))
//
//	client, _ := voxel.NewClient(&redis.Options{Addr: "localhost:6379"}, "default")
//	defer client.Close()
//	if err := client.SaveWorld(ctx, voxel.NewWorld(store, time.Now().UnixMilli())); err != nil {
//		log.Fatal(err)
//	}
package voxel
