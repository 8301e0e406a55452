package config

import "github.com/gyaneshwarpardhi/hookshot/internal/schema"

// Config is the top-level YAML structure.
type Config struct {
	Version string       `yaml:"version"`
	Server  ServerConf   `yaml:"server"`
	Engine  EngineConf   `yaml:"engine"`
	Vendors []VendorConf `yaml:"vendors"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
	IdleTimeoutMs  int    `yaml:"idle_timeout_ms"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	Workers    int `yaml:"workers"`
	QueueDepth int `yaml:"queue_depth"`
	TimeoutMs  int `yaml:"timeout_ms"`
}

// VendorConf describes one webhook source and its schema table.
type VendorConf struct {
	Name           string       `yaml:"name"`
	Path           string       `yaml:"path"` // URL segment: /v1/webhooks/{path}
	Enabled        bool         `yaml:"enabled"`
	ContentType    string       `yaml:"content_type"`
	TrackerVersion string       `yaml:"tracker_version"`
	Platform       string       `yaml:"platform"`
	Schemas        []SchemaConf `yaml:"schemas"`
}

// SchemaConf maps an event subtype to a schema key.
type SchemaConf struct {
	Subtype    string `yaml:"subtype"`
	schema.Key `yaml:",inline"`
}

// Table builds the read-only resolver table for the vendor.
func (v VendorConf) Table() *schema.Table {
	entries := make(map[string]schema.Key, len(v.Schemas))
	for _, s := range v.Schemas {
		entries[s.Subtype] = s.Key
	}
	return schema.NewTable(entries)
}
