// Package logging holds shared slog attribute helpers so every component
// logs the same field names.
package logging

import "log/slog"

const (
	FieldVendor    = "vendor"
	FieldSchema    = "schema"
	FieldStage     = "stage"
	FieldReceiptID = "receipt_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "err"
)

// Vendor returns a slog attribute for the vendor path.
func Vendor(path string) slog.Attr {
	return slog.String(FieldVendor, path)
}

// Schema returns a slog attribute for a schema URI.
func Schema(uri string) slog.Attr {
	return slog.String(FieldSchema, uri)
}

// Stage returns a slog attribute for a pipeline stage.
func Stage(stage string) slog.Attr {
	return slog.String(FieldStage, stage)
}

// ReceiptID returns a slog attribute for the receipt issued to a webhook call.
func ReceiptID(id string) slog.Attr {
	return slog.String(FieldReceiptID, id)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
