// Package form decodes application/x-www-form-urlencoded data into flat maps.
package form

import (
	"net/url"
	"strings"

	"github.com/gyaneshwarpardhi/hookshot/internal/event"
)

// Map is a flat key/value view of form data. The last value wins on
// duplicate keys.
type Map map[string]string

// FromPairs folds ordered query-string pairs into a Map.
func FromPairs(pairs []event.NameValue) Map {
	m := make(Map, len(pairs))
	for _, p := range pairs {
		m[p.Name] = p.Value
	}
	return m
}

// Decode parses a URL-encoded body. A malformed percent escape is an error.
func Decode(body string) (Map, error) {
	m := make(Map)
	for body != "" {
		var pair string
		pair, body, _ = strings.Cut(body, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}
		m[key] = val
	}
	return m, nil
}

// Pairs splits a raw query string into ordered pairs, keeping duplicates.
func Pairs(rawQuery string) ([]event.NameValue, error) {
	var out []event.NameValue
	for rawQuery != "" {
		var pair string
		pair, rawQuery, _ = strings.Cut(rawQuery, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}
		out = append(out, event.NameValue{Name: key, Value: val})
	}
	return out, nil
}
