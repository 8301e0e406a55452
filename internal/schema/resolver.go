package schema

import (
	"errors"
	"fmt"
)

// ErrNoSchema is returned for a subtype with no mapping.
var ErrNoSchema = errors.New("no schema for event type")

// Resolver maps an event subtype to its schema key.
type Resolver interface {
	Resolve(subtype string) (Key, error)
}

// Table is a fixed subtype → key mapping. It is never modified after
// NewTable returns, so it can be shared between goroutines without locking.
type Table struct {
	entries map[string]Key
}

// NewTable copies entries into a new Table.
func NewTable(entries map[string]Key) *Table {
	t := &Table{entries: make(map[string]Key, len(entries))}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t
}

// Resolve implements Resolver.
func (t *Table) Resolve(subtype string) (Key, error) {
	if t != nil {
		if k, ok := t.entries[subtype]; ok {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("%w [%s]", ErrNoSchema, subtype)
}
