package adapter

import (
	"github.com/gyaneshwarpardhi/hookshot/internal/errtext"
	"github.com/gyaneshwarpardhi/hookshot/internal/form"
	"github.com/gyaneshwarpardhi/hookshot/internal/jsontree"
)

// dataKey is the body field carrying the JSON-encoded event.
const dataKey = "data"

// extract parses the event carried in the body's data field. The event must
// be a JSON object.
func (a *Adapter) extract(body form.Map) (jsontree.Object, error) {
	raw, ok := body[dataKey]
	if !ok {
		return nil, a.fail(StageExtract, "%s event data does not have '%s' as a key", a.vendor.Name, dataKey)
	}
	if raw == "" {
		return nil, a.fail(StageExtract, "%s event data is empty: nothing to process", a.vendor.Name)
	}
	v, err := jsontree.Parse([]byte(raw))
	if err != nil {
		return nil, a.fail(StageExtract, "%s event string failed to parse into JSON: [%s]", a.vendor.Name, errtext.Sanitize(err))
	}
	obj, ok := v.(jsontree.Object)
	if !ok {
		return nil, a.fail(StageExtract, "%s event wrong type: expected a JSON object, got %s", a.vendor.Name, v.Kind())
	}
	return obj, nil
}
