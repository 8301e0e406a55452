package jsontree_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/hookshot/internal/jsontree"
)

func TestParse_Shapes(t *testing.T) {
	v, err := jsontree.Parse([]byte(`{"b":1.50,"a":[true,null,"x"],"c":{}}`))
	require.NoError(t, err)

	obj, ok := v.(jsontree.Object)
	require.True(t, ok)
	require.Len(t, obj, 3)
	assert.Equal(t, "b", obj[0].Key, "member order is preserved")
	assert.Equal(t, jsontree.Number("1.50"), obj[0].Value)
	assert.Equal(t, jsontree.Array{jsontree.Bool(true), jsontree.Null{}, jsontree.String("x")}, obj[1].Value)
	assert.Equal(t, jsontree.Object{}, obj[2].Value)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unterminated object": `{not json`,
		"empty":               ``,
		"trailing value":      `{} {}`,
		"trailing garbage":    `{"a":1}}`,
		"missing colon":       `{"a" 1}`,
		"open array":          `[1,2`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := jsontree.Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestObject_GetHas(t *testing.T) {
	obj := jsontree.Object{
		{Key: "operators", Value: jsontree.Null{}},
		{Key: "id", Value: jsontree.String("x")},
	}
	assert.True(t, obj.Has("operators"), "null member is present")
	assert.False(t, obj.Has("items"))
	v, ok := obj.Get("id")
	assert.True(t, ok)
	assert.Equal(t, jsontree.String("x"), v)
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := `{"z":"<b>&amp;","n":-1.2e3,"a":[{},[],null,false],"u":"é\n"}`
	v, err := jsontree.Parse([]byte(in))
	require.NoError(t, err)

	out, err := jsontree.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"<b>&amp;","n":-1.2e3,"a":[{},[],null,false],"u":"é\n"}`, string(out))
}

func TestMarshal_EmbeddedInStruct(t *testing.T) {
	payload := struct {
		Data jsontree.Value `json:"data"`
		N    jsontree.Value `json:"n"`
		Nil  jsontree.Value `json:"nil"`
	}{
		Data: jsontree.Object{{Key: "k", Value: jsontree.Number("7")}},
		N:    jsontree.Number("3.25"),
		Nil:  jsontree.Null{},
	}
	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"k":7},"n":3.25,"nil":null}`, string(out))
}

func TestTransformFields(t *testing.T) {
	in := jsontree.Object{
		{Key: "name", Value: jsontree.String("top")},
		{Key: "nested", Value: jsontree.Object{
			{Key: "name", Value: jsontree.String("inner")},
			{Key: "name", Value: jsontree.Number("1")},
		}},
		{Key: "list", Value: jsontree.Array{
			jsontree.Object{{Key: "name", Value: jsontree.String("elem")}},
		}},
	}
	upper := func(v jsontree.Value) (jsontree.Value, error) {
		return jsontree.String("<" + string(v.(jsontree.String)) + ">"), nil
	}

	out, err := jsontree.TransformFields(in, jsontree.Named("name", jsontree.KindString), upper)
	require.NoError(t, err)

	want := jsontree.Object{
		{Key: "name", Value: jsontree.String("<top>")},
		{Key: "nested", Value: jsontree.Object{
			{Key: "name", Value: jsontree.String("<inner>")},
			{Key: "name", Value: jsontree.Number("1")},
		}},
		{Key: "list", Value: jsontree.Array{
			jsontree.Object{{Key: "name", Value: jsontree.String("<elem>")}},
		}},
	}
	assert.Equal(t, want, out)
	assert.Equal(t, jsontree.String("top"), in[0].Value, "input is not modified")
}

func TestTransformFields_ChildrenFirst(t *testing.T) {
	in := jsontree.Object{
		{Key: "n", Value: jsontree.Object{{Key: "n", Value: jsontree.Object{}}}},
	}
	var order []int
	_, err := jsontree.TransformFields(in, jsontree.Named("n", jsontree.KindObject), func(v jsontree.Value) (jsontree.Value, error) {
		order = append(order, len(v.(jsontree.Object)))
		return v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, order)
}

func TestTransformFields_ErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	in := jsontree.Array{jsontree.Object{{Key: "x", Value: jsontree.Bool(true)}}}
	_, err := jsontree.TransformFields(in, jsontree.Named("x", jsontree.KindBool), func(jsontree.Value) (jsontree.Value, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestMapElements(t *testing.T) {
	out, err := jsontree.MapElements(jsontree.Array{jsontree.Number("1"), jsontree.String("a")}, func(v jsontree.Value) (jsontree.Value, error) {
		if v.Kind() == jsontree.KindNumber {
			return jsontree.Null{}, nil
		}
		return v, nil
	})
	require.NoError(t, err)
	assert.Equal(t, jsontree.Array{jsontree.Null{}, jsontree.String("a")}, out)
}
