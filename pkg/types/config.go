// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration and publication records shared by
// the clingen lookup, archive, and web packages.
package types

import "time"

// HTTPConfig holds shared HTTP settings used by every component that talks
// to the MouseMine web service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "clingen/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MineConfig holds settings for the InterMine query client.
type MineConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the service root (e.g. "https://www.mousemine.org/mousemine/service").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Token is an optional API token sent as "Authorization: Token <t>".
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// ServerConfig holds settings for the HTTP lookup server.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout bounds reading the inbound request.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// ArchiveLookups saves every successful lookup into the archive.
	ArchiveLookups bool `json:"archive_lookups" yaml:"archive_lookups"`
}

// ArchiveDriver selects the database/sql driver used by the lookup archive.
type ArchiveDriver string

const (
	ArchiveSQLite   ArchiveDriver = "sqlite3"
	ArchivePostgres ArchiveDriver = "pgx"
)

// ArchiveConfig holds settings for the saved-lookup archive.
type ArchiveConfig struct {
	// Driver is sqlite3 (default) or pgx.
	Driver ArchiveDriver `json:"driver" yaml:"driver"`

	// DSN is a file path for sqlite3 or a connection URL for pgx.
	DSN string `json:"dsn" yaml:"dsn"`
}

// S3Config holds the destination for archive exports uploaded to object
// storage. Endpoint and PathStyle allow S3-compatible servers such as MinIO.
type S3Config struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	PathStyle       bool   `json:"path_style" yaml:"path_style"`
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// Config groups every setting the clingen binary reads from flags, the
// config file, and CLINGEN_* environment variables.
type Config struct {
	Mine    MineConfig    `json:"mine" yaml:"mine"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
	S3      S3Config      `json:"s3" yaml:"s3"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
