package driven

import "time"

// ConfigStore is a read-only view of the settings file.
// Keys of nested tables are joined with dots ("watcher.poll_interval").
// Typed getters return the zero value for a missing key or a value of the wrong type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetDuration accepts a Go duration string ("5m") or a whole number of seconds.
	GetDuration(key string) time.Duration
}
