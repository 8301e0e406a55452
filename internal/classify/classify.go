// Package classify derives an event subtype from the shape of a decoded
// webhook event.
package classify

import "github.com/gyaneshwarpardhi/hookshot/internal/jsontree"

const (
	Transcript     = "transcript"
	OfflineMessage = "offline_message"
)

// discriminator is the root field whose presence marks a chat transcript.
const discriminator = "operators"

// Subtypes is the closed set Subtype can return.
var Subtypes = []string{Transcript, OfflineMessage}

// Subtype classifies an event by the presence of its operators field.
// Only presence counts: null, an empty array and any other value all mean
// Transcript.
func Subtype(ev jsontree.Object) string {
	if ev.Has(discriminator) {
		return Transcript
	}
	return OfflineMessage
}

// Known reports whether s is one of Subtypes.
func Known(s string) bool {
	for _, k := range Subtypes {
		if k == s {
			return true
		}
	}
	return false
}
