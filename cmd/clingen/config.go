// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/clingen/internal/archive"
	"github.com/pdiddy/clingen/internal/export"
	"github.com/pdiddy/clingen/internal/httputil"
	"github.com/pdiddy/clingen/internal/mine"
	"github.com/pdiddy/clingen/pkg/types"
)

const (
	defaultUserAgent = "clingen/0.1"
	defaultAddr      = ":8080"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("mine.base_url", mine.DefaultBaseURL)
	v.SetDefault("mine.token", "")
	v.SetDefault("http.timeout", httputil.DefaultTimeout)
	v.SetDefault("http.user_agent", defaultUserAgent)
	v.SetDefault("http.max_retries", 0)
	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.archive", false)
	v.SetDefault("archive.driver", string(types.ArchiveSQLite))
	v.SetDefault("archive.dsn", archive.DefaultDSN)
	v.SetDefault("export.s3.bucket", "")
	v.SetDefault("export.s3.region", export.DefaultRegion)
	v.SetDefault("export.s3.endpoint", "")
	v.SetDefault("export.s3.path_style", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig maps the viper keys onto types.Config.
func loadConfig(v *viper.Viper) types.Config {
	return types.Config{
		Mine: types.MineConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    v.GetDuration("http.timeout"),
				UserAgent:  v.GetString("http.user_agent"),
				MaxRetries: v.GetInt("http.max_retries"),
			},
			BaseURL: v.GetString("mine.base_url"),
			Token:   v.GetString("mine.token"),
		},
		Server: types.ServerConfig{
			Addr:           v.GetString("server.addr"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			ArchiveLookups: v.GetBool("server.archive"),
		},
		Archive: types.ArchiveConfig{
			Driver: types.ArchiveDriver(v.GetString("archive.driver")),
			DSN:    v.GetString("archive.dsn"),
		},
		S3: types.S3Config{
			Bucket:          v.GetString("export.s3.bucket"),
			Region:          v.GetString("export.s3.region"),
			Endpoint:        v.GetString("export.s3.endpoint"),
			PathStyle:       v.GetBool("export.s3.path_style"),
			AccessKeyID:     v.GetString("export.s3.access_key_id"),
			SecretAccessKey: v.GetString("export.s3.secret_access_key"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}
