// Package schema resolves event subtypes to versioned schema identifiers.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Protocol is the URI prefix of every rendered schema key.
const Protocol = "iglu:"

// UnstructEvent is the envelope schema wrapping self-describing event bodies.
var UnstructEvent = Key{
	Vendor:  "com.snowplowanalytics.snowplow",
	Name:    "unstruct_event",
	Format:  "jsonschema",
	Version: "1-0-0",
}

var versionPattern = regexp.MustCompile(`^[1-9][0-9]*-(0|[1-9][0-9]*)-(0|[1-9][0-9]*)$`)

// Key identifies one version of a schema.
type Key struct {
	Vendor  string `yaml:"vendor" json:"vendor"`
	Name    string `yaml:"name" json:"name"`
	Format  string `yaml:"format" json:"format"`
	Version string `yaml:"version" json:"version"` // MODEL-REVISION-ADDITION
}

// URI renders the key as iglu:vendor/name/format/version.
func (k Key) URI() string {
	return Protocol + k.Vendor + "/" + k.Name + "/" + k.Format + "/" + k.Version
}

func (k Key) String() string { return k.URI() }

// Validate checks that every part is set and the version is MODEL-REVISION-ADDITION.
func (k Key) Validate() error {
	var missing []string
	if k.Vendor == "" {
		missing = append(missing, "vendor")
	}
	if k.Name == "" {
		missing = append(missing, "name")
	}
	if k.Format == "" {
		missing = append(missing, "format")
	}
	if k.Version == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema key missing %s", strings.Join(missing, ", "))
	}
	if !versionPattern.MatchString(k.Version) {
		return fmt.Errorf("schema key %s: version %q is not MODEL-REVISION-ADDITION", k.URI(), k.Version)
	}
	return nil
}
