package config

import (
	"github.com/gyaneshwarpardhi/hookshot/internal/classify"
	"github.com/gyaneshwarpardhi/hookshot/internal/schema"
)

const (
	defaultAddr           = ":8080"
	defaultReadTimeoutMs  = 10000
	defaultWriteTimeoutMs = 30000
	defaultIdleTimeoutMs  = 60000
	defaultMaxBodyBytes   = 1 << 20
	defaultWorkers        = 8
	defaultQueueDepth     = 1000
	defaultTimeoutMs      = 5000
)

// Default returns the built-in configuration serving Olark webhooks.
func Default() *Config {
	cfg := &Config{
		Version: "v1",
		Vendors: []VendorConf{Olark()},
	}
	applyDefaults(cfg)
	return cfg
}

// Olark is the vendor entry for Olark chat transcripts and offline messages.
func Olark() VendorConf {
	return VendorConf{
		Name:           "Olark",
		Path:           "com.olark",
		Enabled:        true,
		ContentType:    "application/x-www-form-urlencoded",
		TrackerVersion: "com.olark-v1",
		Platform:       "srv",
		Schemas: []SchemaConf{
			{Subtype: classify.Transcript, Key: schema.Key{Vendor: "com.olark", Name: "transcript", Format: "jsonschema", Version: "1-0-0"}},
			{Subtype: classify.OfflineMessage, Key: schema.Key{Vendor: "com.olark", Name: "offline_message", Format: "jsonschema", Version: "1-0-0"}},
		},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.ReadTimeoutMs == 0 {
		cfg.Server.ReadTimeoutMs = defaultReadTimeoutMs
	}
	if cfg.Server.WriteTimeoutMs == 0 {
		cfg.Server.WriteTimeoutMs = defaultWriteTimeoutMs
	}
	if cfg.Server.IdleTimeoutMs == 0 {
		cfg.Server.IdleTimeoutMs = defaultIdleTimeoutMs
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = defaultWorkers
	}
	if cfg.Engine.QueueDepth == 0 {
		cfg.Engine.QueueDepth = defaultQueueDepth
	}
	if cfg.Engine.TimeoutMs == 0 {
		cfg.Engine.TimeoutMs = defaultTimeoutMs
	}
}
