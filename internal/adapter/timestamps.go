package adapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gyaneshwarpardhi/hookshot/internal/jsontree"
)

// TimestampLayout is the date-time format of canonical event fields.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// maxEpochMillis is 9999-12-31T23:59:59.999Z, the last instant
// TimestampLayout can hold with a four-digit year.
const maxEpochMillis = 253402300799999

// NormalizeTimestamps rewrites every string timestamp field of the objects
// held in items arrays from fractional epoch seconds ("1307116657.1") to
// TimestampLayout. Values already in TimestampLayout are kept, so the
// rewrite is idempotent. Any other timestamp string fails the whole tree.
func NormalizeTimestamps(v jsontree.Value) (jsontree.Value, error) {
	return jsontree.TransformFields(v, jsontree.Named("items", jsontree.KindArray), normalizeItems)
}

func normalizeItems(items jsontree.Value) (jsontree.Value, error) {
	arr, ok := items.(jsontree.Array)
	if !ok {
		return items, nil
	}
	return jsontree.MapElements(arr, func(elem jsontree.Value) (jsontree.Value, error) {
		obj, ok := elem.(jsontree.Object)
		if !ok {
			return elem, nil
		}
		return jsontree.TransformFields(obj, jsontree.Named("timestamp", jsontree.KindString), rewriteTimestamp)
	})
}

func rewriteTimestamp(v jsontree.Value) (jsontree.Value, error) {
	s, ok := v.(jsontree.String)
	if !ok {
		return v, nil
	}
	if _, err := time.Parse(TimestampLayout, string(s)); err == nil {
		return s, nil
	}
	ms, err := EpochMillis(string(s))
	if err != nil {
		return nil, err
	}
	return jsontree.String(time.UnixMilli(ms).UTC().Format(TimestampLayout)), nil
}

// EpochMillis converts "<seconds>" or "<seconds>.<fraction>" to milliseconds
// since the epoch. Only the first three fraction digits are kept and shorter
// fractions are right-padded with zeros. Instants after year 9999 are
// rejected.
func EpochMillis(s string) (int64, error) {
	parts := strings.Split(s, ".")
	var sec, frac string
	switch len(parts) {
	case 1:
		sec = parts[0]
	case 2:
		sec, frac = parts[0], parts[1]
	default:
		return 0, fmt.Errorf("timestamp %q has %d segments, expected <seconds>[.<fraction>]", s, len(parts))
	}
	if sec == "" || !digitsOnly(sec) || !digitsOnly(frac) {
		return 0, fmt.Errorf("timestamp %q is not a decimal number of seconds", s)
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	frac += strings.Repeat("0", 3-len(frac))
	ms, err := strconv.ParseInt(sec+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: %w", s, err)
	}
	if ms > maxEpochMillis {
		return 0, fmt.Errorf("timestamp %q is after year 9999", s)
	}
	return ms, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
