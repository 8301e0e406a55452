// Package adapter converts vendor webhook payloads into canonical raw events.
//
// A payload moves through fixed stages: the envelope is checked, the
// URL-encoded body and query string are decoded, the JSON event is extracted
// from the body's data field, classified by shape, resolved to a schema key,
// has its item timestamps normalized, and is finally wrapped as an
// unstructured event. Each stage either hands its output to the next or
// stops the payload with a Failure naming the vendor.
//
// An Adapter holds no mutable state and may be shared by any number of
// goroutines.
package adapter

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/hookshot/internal/classify"
	"github.com/gyaneshwarpardhi/hookshot/internal/errtext"
	"github.com/gyaneshwarpardhi/hookshot/internal/event"
	"github.com/gyaneshwarpardhi/hookshot/internal/form"
	"github.com/gyaneshwarpardhi/hookshot/internal/schema"
)

const (
	// FormContentType is the only content type webhook bodies may use.
	FormContentType = "application/x-www-form-urlencoded"
	// ServerPlatform is the platform code for server-side events.
	ServerPlatform = "srv"
)

// Stage names the pipeline step a Failure came from.
type Stage string

const (
	StageEnvelope  Stage = "envelope"
	StageDecode    Stage = "decode"
	StageExtract   Stage = "extract"
	StageResolve   Stage = "resolve"
	StageNormalize Stage = "normalize"
	StageAssemble  Stage = "assemble"
	StageInternal  Stage = "internal"
)

// Failure rejects a payload. Messages is never empty and every entry names
// the vendor.
type Failure struct {
	Vendor   string
	Stage    Stage
	Messages []string
}

func (f *Failure) Error() string {
	return strings.Join(f.Messages, "; ")
}

// Vendor describes the third-party service behind an adapter.
type Vendor struct {
	Name           string // used in every failure message
	ContentType    string
	TrackerVersion string
	Platform       string
}

// Adapter turns payloads of one vendor into raw events.
type Adapter struct {
	vendor   Vendor
	resolver schema.Resolver
}

// New creates an Adapter. Empty ContentType and Platform fall back to
// FormContentType and ServerPlatform.
func New(v Vendor, r schema.Resolver) *Adapter {
	if v.ContentType == "" {
		v.ContentType = FormContentType
	}
	if v.Platform == "" {
		v.Platform = ServerPlatform
	}
	return &Adapter{vendor: v, resolver: r}
}

// Vendor returns the adapter's vendor description.
func (a *Adapter) Vendor() Vendor { return a.vendor }

// ToRawEvents converts one payload. On success it returns exactly one event;
// otherwise the error is a *Failure.
func (a *Adapter) ToRawEvents(p event.CollectorPayload) ([]event.RawEvent, error) {
	events, _, err := a.Convert(p)
	return events, err
}

// Convert is ToRawEvents that also reports the schema key the event was
// tagged with.
func (a *Adapter) Convert(p event.CollectorPayload) (events []event.RawEvent, key schema.Key, err error) {
	defer func() {
		if r := recover(); r != nil {
			events, key = nil, schema.Key{}
			err = a.fail(StageInternal, "%s unexpected failure: [%s]", a.vendor.Name, errtext.SanitizeString(fmt.Sprint(r)))
		}
	}()

	if err := a.validateEnvelope(p.Body, p.ContentType); err != nil {
		return nil, schema.Key{}, err
	}

	qs := form.FromPairs(p.QueryString)
	body, err := form.Decode(*p.Body)
	if err != nil {
		return nil, schema.Key{}, a.fail(StageDecode, "%s could not parse body: [%s]", a.vendor.Name, errtext.Sanitize(err))
	}

	tree, err := a.extract(body)
	if err != nil {
		return nil, schema.Key{}, err
	}

	subtype := classify.Subtype(tree)
	key, err = a.resolver.Resolve(subtype)
	if err != nil {
		return nil, schema.Key{}, a.fail(StageResolve, "%s event failed: %s", a.vendor.Name, errtext.Sanitize(err))
	}

	normalized, err := NormalizeTimestamps(tree)
	if err != nil {
		return nil, schema.Key{}, a.fail(StageNormalize, "%s could not convert timestamps: [%s]", a.vendor.Name, errtext.Sanitize(err))
	}

	params, err := a.parameters(qs, key, normalized)
	if err != nil {
		return nil, schema.Key{}, a.fail(StageAssemble, "%s could not assemble event: [%s]", a.vendor.Name, errtext.Sanitize(err))
	}

	return []event.RawEvent{{
		API:         p.API,
		Parameters:  params,
		ContentType: p.ContentType,
		Source:      p.Source,
		Context:     p.Context,
	}}, key, nil
}

func (a *Adapter) fail(stage Stage, format string, args ...interface{}) *Failure {
	return &Failure{
		Vendor:   a.vendor.Name,
		Stage:    stage,
		Messages: []string{fmt.Sprintf(format, args...)},
	}
}
