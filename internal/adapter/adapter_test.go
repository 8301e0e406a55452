package adapter_test

import (
	"encoding/json"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/hookshot/internal/adapter"
	"github.com/gyaneshwarpardhi/hookshot/internal/classify"
	"github.com/gyaneshwarpardhi/hookshot/internal/config"
	"github.com/gyaneshwarpardhi/hookshot/internal/event"
	"github.com/gyaneshwarpardhi/hookshot/internal/schema"
)

const (
	transcriptURI = "iglu:com.olark/transcript/jsonschema/1-0-0"
	offlineURI    = "iglu:com.olark/offline_message/jsonschema/1-0-0"
)

func strPtr(s string) *string { return &s }

func olark() *adapter.Adapter {
	v := config.Olark()
	return adapter.New(adapter.Vendor{Name: v.Name, TrackerVersion: v.TrackerVersion}, v.Table())
}

func formBody(data string) string {
	return url.Values{"data": {data}}.Encode()
}

func makePayload(body string) event.CollectorPayload {
	return event.CollectorPayload{
		API:         event.API{Vendor: "com.olark", Version: "v1"},
		Body:        strPtr(body),
		ContentType: strPtr(adapter.FormContentType),
		Source:      event.Source{Name: "hookshot", Encoding: "UTF-8", Hostname: "collector.local"},
		Context: event.Context{
			Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			IPAddress: "203.0.113.7",
			UserAgent: "Olark-Webhook/1.0",
			Headers:   []string{"Content-Type: application/x-www-form-urlencoded"},
		},
	}
}

func requireFailure(t *testing.T, err error, stage adapter.Stage) *adapter.Failure {
	t.Helper()
	var f *adapter.Failure
	require.ErrorAs(t, err, &f)
	require.NotEmpty(t, f.Messages)
	assert.Equal(t, stage, f.Stage)
	assert.Equal(t, "Olark", f.Vendor)
	return f
}

// unstruct decodes the ue_pr parameter of ev.
func unstruct(t *testing.T, ev event.RawEvent) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(ev.Parameters[adapter.ParamUnstructEvent]), &out))
	return out
}

func innerSchema(t *testing.T, ev event.RawEvent) string {
	t.Helper()
	data := unstruct(t, ev)["data"].(map[string]interface{})
	return data["schema"].(string)
}

func TestToRawEvents_Envelope(t *testing.T) {
	cases := []struct {
		name        string
		body        *string
		contentType *string
		want        string
	}{
		{
			name: "missing body",
			want: "Request body is empty: no Olark events to process",
		},
		{
			name:        "missing body wins over content type",
			contentType: strPtr("text/plain"),
			want:        "Request body is empty: no Olark events to process",
		},
		{
			name: "missing content type",
			body: strPtr("data=x"),
			want: "Request body provided but content type empty, expected application/x-www-form-urlencoded for Olark",
		},
		{
			name:        "wrong content type",
			body:        strPtr("data=x"),
			contentType: strPtr("application/json"),
			want:        "Content type of application/json provided, expected application/x-www-form-urlencoded for Olark",
		},
		{
			name:        "content type with parameters",
			body:        strPtr("data=x"),
			contentType: strPtr("application/x-www-form-urlencoded; charset=utf-8"),
			want:        "Content type of application/x-www-form-urlencoded; charset=utf-8 provided, expected application/x-www-form-urlencoded for Olark",
		},
		{
			name:        "empty body",
			body:        strPtr(""),
			contentType: strPtr(adapter.FormContentType),
			want:        "Olark event body is empty: nothing to process",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := makePayload("")
			p.Body = tc.body
			p.ContentType = tc.contentType

			events, err := olark().ToRawEvents(p)
			assert.Nil(t, events)
			f := requireFailure(t, err, adapter.StageEnvelope)
			assert.Equal(t, []string{tc.want}, f.Messages)
		})
	}
}

func TestToRawEvents_Extraction(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		stage adapter.Stage
		want  string
	}{
		{"malformed escape", "data=%7", adapter.StageDecode, `Olark could not parse body: [invalid URL escape "%7"]`},
		{"missing data key", "other=1", adapter.StageExtract, "Olark event data does not have 'data' as a key"},
		{"empty data", "data=&x=1", adapter.StageExtract, "Olark event data is empty: nothing to process"},
		{"invalid json", formBody("{not json"), adapter.StageExtract, "Olark event string failed to parse into JSON: [invalid character 'n' looking for beginning of object key string]"},
		{"array root", formBody(`[{"operators":[]}]`), adapter.StageExtract, "Olark event wrong type: expected a JSON object, got array"},
		{"scalar root", formBody(`42`), adapter.StageExtract, "Olark event wrong type: expected a JSON object, got number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, err := olark().ToRawEvents(makePayload(tc.body))
			assert.Nil(t, events)
			f := requireFailure(t, err, tc.stage)
			assert.Equal(t, []string{tc.want}, f.Messages)
		})
	}
}

func TestToRawEvents_Classification(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"no operators", `{"kind":"Conversation","id":"abc","items":[]}`, offlineURI},
		{"operators empty", `{"operators":[]}`, transcriptURI},
		{"operators null", `{"operators":null}`, transcriptURI},
		{"operators populated", `{"operators":{"1234":{"username":"yali","nickname":"Yali"}}}`, transcriptURI},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events, err := olark().ToRawEvents(makePayload(formBody(tc.data)))
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tc.want, innerSchema(t, events[0]))
		})
	}
}

func TestToRawEvents_EndToEnd(t *testing.T) {
	p := makePayload("data=%7B%22operators%22%3A%5B%5D%7D")
	p.QueryString = []event.NameValue{{Name: "aid", Value: "support-site"}}

	events, err := olark().ToRawEvents(p)
	require.NoError(t, err)
	require.Len(t, events, 1)
	ev := events[0]

	assert.Equal(t, map[string]string{
		"aid":   "support-site",
		"tv":    "com.olark-v1",
		"e":     "ue",
		"p":     "srv",
		"ue_pr": `{"schema":"iglu:com.snowplowanalytics.snowplow/unstruct_event/jsonschema/1-0-0","data":{"schema":"iglu:com.olark/transcript/jsonschema/1-0-0","data":{"operators":[]}}}`,
	}, ev.Parameters)
	assert.Equal(t, p.API, ev.API)
	assert.Equal(t, p.ContentType, ev.ContentType)
	assert.Equal(t, p.Source, ev.Source)
	assert.Equal(t, p.Context, ev.Context)
}

func TestToRawEvents_Transcript(t *testing.T) {
	data := `{"kind":"Conversation","id":"NOTAREALTRANSCRIPT5LZ",` +
		`"tags":["olark","customer"],` +
		`"items":[` +
		`{"body":"Hi there","timestamp":"1307116657.1","kind":"MessageToOperator","nickname":"Bob"},` +
		`{"body":"Hi!","timestamp":"1307116661.25","kind":"MessageToVisitor","operatorId":"647563"}` +
		`],` +
		`"visitor":{"ip":"127.0.0.1","emailAddress":"bob@example.com"},` +
		`"operators":{"647563":{"username":"yali","emailAddress":"yali@example.com","nickname":"Yali"}}}`

	events, err := olark().ToRawEvents(makePayload(formBody(data)))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ue := unstruct(t, events[0])
	inner := ue["data"].(map[string]interface{})
	assert.Equal(t, transcriptURI, inner["schema"])

	body := inner["data"].(map[string]interface{})
	items := body["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "2011-06-03T15:57:37.100Z", items[0].(map[string]interface{})["timestamp"])
	assert.Equal(t, "2011-06-03T15:57:41.250Z", items[1].(map[string]interface{})["timestamp"])
	assert.Equal(t, "127.0.0.1", body["visitor"].(map[string]interface{})["ip"])
}

func TestToRawEvents_MalformedTimestamp(t *testing.T) {
	data := `{"items":[{"timestamp":"1307116657.1.2"}]}`
	events, err := olark().ToRawEvents(makePayload(formBody(data)))
	assert.Nil(t, events)
	f := requireFailure(t, err, adapter.StageNormalize)
	assert.Equal(t, []string{
		`Olark could not convert timestamps: [timestamp "1307116657.1.2" has 3 segments, expected <seconds>[.<fraction>]]`,
	}, f.Messages)
}

func TestToRawEvents_QueryStringPrecedence(t *testing.T) {
	p := makePayload(formBody(`{"operators":[]}`))
	p.QueryString = []event.NameValue{
		{Name: "tv", Value: "spoofed"},
		{Name: "e", Value: "pv"},
		{Name: "ue_pr", Value: "{}"},
		{Name: "nuid", Value: "first"},
		{Name: "nuid", Value: "second"},
	}
	events, err := olark().ToRawEvents(p)
	require.NoError(t, err)
	params := events[0].Parameters
	assert.Equal(t, "com.olark-v1", params["tv"])
	assert.Equal(t, "ue", params["e"])
	assert.Equal(t, "srv", params["p"])
	assert.NotEqual(t, "{}", params["ue_pr"])
	assert.Equal(t, "second", params["nuid"])

	p.QueryString = []event.NameValue{{Name: "p", Value: "web"}}
	events, err = olark().ToRawEvents(p)
	require.NoError(t, err)
	assert.Equal(t, "web", events[0].Parameters["p"], "platform supplied by the caller is kept")
}

func TestToRawEvents_UnmappedSubtype(t *testing.T) {
	table := schema.NewTable(map[string]schema.Key{
		classify.Transcript: {Vendor: "com.olark", Name: "transcript", Format: "jsonschema", Version: "1-0-0"},
	})
	a := adapter.New(adapter.Vendor{Name: "Olark", TrackerVersion: "com.olark-v1"}, table)

	events, err := a.ToRawEvents(makePayload(formBody(`{"kind":"OfflineMessage"}`)))
	assert.Nil(t, events)
	f := requireFailure(t, err, adapter.StageResolve)
	assert.Equal(t, []string{"Olark event failed: no schema for event type [offline_message]"}, f.Messages)
}

type panickingResolver struct{}

func (panickingResolver) Resolve(string) (schema.Key, error) { panic("resolver exploded\nat line 1") }

func TestToRawEvents_RecoversFromPanic(t *testing.T) {
	a := adapter.New(adapter.Vendor{Name: "Olark"}, panickingResolver{})
	events, err := a.ToRawEvents(makePayload(formBody(`{}`)))
	assert.Nil(t, events)
	f := requireFailure(t, err, adapter.StageInternal)
	assert.Equal(t, []string{"Olark unexpected failure: [resolver exploded at line 1]"}, f.Messages)
}

func TestToRawEvents_Concurrent(t *testing.T) {
	a := olark()
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := `{"items":[{"timestamp":"1307116657.1"}]}`
			if i%2 == 0 {
				data = `{"operators":[],"items":[{"timestamp":"1307116657"}]}`
			}
			events, err := a.ToRawEvents(makePayload(formBody(data)))
			if err == nil && len(events) != 1 {
				err = assert.AnError
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestNew_Defaults(t *testing.T) {
	a := adapter.New(adapter.Vendor{Name: "Olark"}, nil)
	assert.Equal(t, adapter.FormContentType, a.Vendor().ContentType)
	assert.Equal(t, adapter.ServerPlatform, a.Vendor().Platform)
}
