package adapter

import (
	"github.com/gyaneshwarpardhi/hookshot/internal/form"
	"github.com/gyaneshwarpardhi/hookshot/internal/jsontree"
	"github.com/gyaneshwarpardhi/hookshot/internal/schema"
)

// Parameter names of the canonical event.
const (
	ParamTrackerVersion = "tv"
	ParamEvent          = "e"
	ParamPlatform       = "p"
	ParamUnstructEvent  = "ue_pr"

	unstructEventType = "ue"
)

// parameters builds the event parameters: the query string overlaid with
// the tracker version, event type, platform and the unstructured-event
// envelope. A p supplied in the query string replaces the vendor platform.
func (a *Adapter) parameters(qs form.Map, key schema.Key, ev jsontree.Value) (map[string]string, error) {
	ue, err := jsontree.Marshal(UnstructEvent(key, ev))
	if err != nil {
		return nil, err
	}

	platform := a.vendor.Platform
	if p := qs[ParamPlatform]; p != "" {
		platform = p
	}

	params := make(map[string]string, len(qs)+4)
	for k, v := range qs {
		params[k] = v
	}
	params[ParamTrackerVersion] = a.vendor.TrackerVersion
	params[ParamEvent] = unstructEventType
	params[ParamPlatform] = platform
	params[ParamUnstructEvent] = string(ue)
	return params, nil
}

// UnstructEvent wraps ev, tagged with key, in the unstructured-event envelope.
func UnstructEvent(key schema.Key, ev jsontree.Value) jsontree.Object {
	return jsontree.Object{
		{Key: "schema", Value: jsontree.String(schema.UnstructEvent.URI())},
		{Key: "data", Value: jsontree.Object{
			{Key: "schema", Value: jsontree.String(key.URI())},
			{Key: "data", Value: ev},
		}},
	}
}
