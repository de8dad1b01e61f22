// Package config provides configuration loading and defaults for focuswatch.
package config

// DefaultConfigDir is the default location for focuswatch configuration
// and data.
const DefaultConfigDir = "~/.config/focuswatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "focuswatch.db"

// DefaultOutboxName is the filename for the offline session queue.
const DefaultOutboxName = "outbox.json"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultUser is the user id sessions are recorded under when no
// account is configured. A single-machine install never needs more.
const DefaultUser = "local"

// DefaultDurationMinutes is the default planned session length.
const DefaultDurationMinutes = 25

// DefaultSound is the default ambient sound id; "off" disables it.
const DefaultSound = "off"

// DefaultAnalyticsWindow is the default recency window for analytics.
const DefaultAnalyticsWindow = 25

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
