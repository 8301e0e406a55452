package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/hookshot/internal/classify"
)

// Validate checks the config for:
//   - Required fields on the config and every vendor
//   - Negative server and engine limits
//   - Duplicate vendor paths
//   - Schema tables that leave a subtype unmapped, map one twice, or name an unknown one
//   - Malformed schema keys
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string
	if cfg.Engine.Workers < 0 || cfg.Engine.QueueDepth < 0 || cfg.Engine.TimeoutMs < 0 {
		errs = append(errs, "engine: workers, queue_depth and timeout_ms must not be negative")
	}
	if cfg.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Sprintf("server: max_body_bytes must not be negative, got %d", cfg.Server.MaxBodyBytes))
	}
	if cfg.Server.ReadTimeoutMs < 0 || cfg.Server.WriteTimeoutMs < 0 || cfg.Server.IdleTimeoutMs < 0 {
		errs = append(errs, "server: read_timeout_ms, write_timeout_ms and idle_timeout_ms must not be negative")
	}

	paths := make(map[string]string) // path → vendor name
	for i, v := range cfg.Vendors {
		if v.Name == "" {
			errs = append(errs, fmt.Sprintf("vendors[%d]: name is required", i))
			continue
		}
		loc := fmt.Sprintf("vendor %s", v.Name)
		if v.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: path is required", loc))
		} else if strings.Contains(v.Path, "/") {
			errs = append(errs, fmt.Sprintf("%s: path %q must be a single URL segment", loc, v.Path))
		} else if prev, ok := paths[v.Path]; ok {
			errs = append(errs, fmt.Sprintf("duplicate path %q (first used by %s, again by %s)", v.Path, prev, v.Name))
		} else {
			paths[v.Path] = v.Name
		}
		if v.TrackerVersion == "" {
			errs = append(errs, fmt.Sprintf("%s: tracker_version is required", loc))
		}
		validateSchemas(v, loc, &errs)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateSchemas(v VendorConf, loc string, errs *[]string) {
	seen := make(map[string]bool, len(v.Schemas))
	for j, s := range v.Schemas {
		switch {
		case s.Subtype == "":
			*errs = append(*errs, fmt.Sprintf("%s.schemas[%d]: subtype is required", loc, j))
			continue
		case !classify.Known(s.Subtype):
			*errs = append(*errs, fmt.Sprintf("%s.schemas[%d]: unknown subtype %q", loc, j, s.Subtype))
		case seen[s.Subtype]:
			*errs = append(*errs, fmt.Sprintf("%s: subtype %q mapped more than once", loc, s.Subtype))
		}
		seen[s.Subtype] = true
		if err := s.Key.Validate(); err != nil {
			*errs = append(*errs, fmt.Sprintf("%s.schemas[%d]: %v", loc, j, err))
		}
	}
	for _, st := range classify.Subtypes {
		if !seen[st] {
			*errs = append(*errs, fmt.Sprintf("%s: no schema for subtype %q", loc, st))
		}
	}
}
