package voxel

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced by session name so that
// several editing sessions can share one Redis server.
//
// Key pattern: pinch:{session}:{entity}
// Channel pattern: pinch:{session}:{event_type}_events

// WorldKey returns the Redis key for a world's metadata hash.
// Pattern: pinch:{session}:world
func WorldKey(session string) string {
	return fmt.Sprintf("pinch:%s:world", session)
}

// VoxelsKey returns the Redis key for a world's voxel hash.
// Fields are grid keys ("x,y,z"), values are JSON {color, timestamp}.
// Pattern: pinch:{session}:voxels
func VoxelsKey(session string) string {
	return fmt.Sprintf("pinch:%s:voxels", session)
}

// WorldEventsChannel returns the Pub/Sub channel name for world events.
// Pattern: pinch:{session}:world_events
func WorldEventsChannel(session string) string {
	return fmt.Sprintf("pinch:%s:world_events", session)
}
