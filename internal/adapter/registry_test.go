package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/hookshot/internal/adapter"
	"github.com/gyaneshwarpardhi/hookshot/internal/config"
	"github.com/gyaneshwarpardhi/hookshot/internal/schema"
)

func TestRegistry(t *testing.T) {
	r := adapter.NewRegistry()
	a := olark()
	r.Register("com.olark", a)

	got, err := r.Get("com.olark")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = r.Get("com.zendesk")
	assert.ErrorIs(t, err, adapter.ErrUnknownVendor)

	assert.Panics(t, func() { r.Register("com.olark", a) })
	assert.Equal(t, []string{"com.olark"}, r.Paths())
}

func TestBuild(t *testing.T) {
	cfg := config.Default()
	disabled := config.Olark()
	disabled.Path = "com.olark.legacy"
	disabled.Enabled = false
	cfg.Vendors = append(cfg.Vendors, disabled)

	r, err := adapter.Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.olark"}, r.Paths())

	a, err := r.Get("com.olark")
	require.NoError(t, err)
	assert.Equal(t, "Olark", a.Vendor().Name)
	assert.Equal(t, "com.olark-v1", a.Vendor().TrackerVersion)
}

func TestBuild_DuplicatePath(t *testing.T) {
	cfg := config.Default()
	cfg.Vendors = append(cfg.Vendors, config.Olark())
	_, err := adapter.Build(cfg)
	assert.Error(t, err)
}

func TestConvert_ReportsSchemaKey(t *testing.T) {
	events, key, err := olark().Convert(makePayload(formBody(`{"operators":null}`)))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, transcriptURI, key.URI())

	events, key, err = olark().Convert(makePayload(formBody(`[]`)))
	require.Error(t, err)
	assert.Empty(t, events)
	assert.Equal(t, schema.Key{}, key)
}
