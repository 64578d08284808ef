package store

import "sync"

// Key layout. Books and notes are keyed by record id alone: record ids are
// globally unique across users, so the owner tag lives in the value, not the
// key. Settings flags and pending markers are keyed by user.
const (
	bookPrefix     = "book:"
	notePrefix     = "note:"
	settingsPrefix = "settings:"
	pendingPrefix  = "pending:"

	schemaVersionKey = "schema:version"
)

// keyPool provides reusable byte slices for building database keys.
// This reduces allocations on the hot path of database operations.
var keyPool = sync.Pool{
	New: func() any {
		// 64 bytes covers prefix + NanoID (21 chars) + flag name.
		return make([]byte, 0, 64)
	},
}

// buildKey constructs a database key from prefix and suffix using a pooled
// buffer. Callers MUST call releaseKey when done with the key.
func buildKey(prefix, suffix string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0] // Reset length, keep capacity
	buf = append(buf, prefix...)
	buf = append(buf, suffix...)
	return buf
}

// buildFlagKey constructs a settings flag key: settings:<userID>:<flag>.
// Callers MUST call releaseKey when done with the key.
func buildFlagKey(userID, flag string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, settingsPrefix...)
	buf = append(buf, userID...)
	buf = append(buf, ':')
	buf = append(buf, flag...)
	return buf
}

// releaseKey returns a key buffer to the pool for reuse.
// After calling this, the key slice must not be used.
func releaseKey(key []byte) {
	// Only pool buffers of the expected capacity
	if cap(key) <= 256 {
		keyPool.Put(key[:0])
	}
}
