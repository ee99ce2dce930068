package infer

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectEmpty(t *testing.T) {
	bs := []byte("{}")
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	assert.Equal(t, openapi3.TypeObject, s.Type)
	assert.Empty(t, s.Properties)
	assert.Empty(t, s.Required)
}

func TestParseObjectOneFieldString(t *testing.T) {
	bs := []byte(`{"field": "string-val"}`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	require.Contains(t, s.Properties, "field")
	assert.Equal(t, openapi3.TypeString, s.Properties["field"].Value.Type)
	assert.Equal(t, "", s.Properties["field"].Value.Format)
	assert.Equal(t, []string{"field"}, s.Required)
}

func TestParseObjectOneFieldUUID(t *testing.T) {
	bs := []byte(`{"id": "0b7a3c5e-4f1d-4f55-9a77-8ad1d3e9c2b1"}`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	assert.Equal(t, openapi3.TypeString, s.Properties["id"].Value.Type)
	assert.Equal(t, "uuid", s.Properties["id"].Value.Format)
}

func TestParseObjectOneFieldNumber(t *testing.T) {
	bs := []byte(`{"price": 1500.0, "count": 1234}`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	assert.Equal(t, openapi3.TypeNumber, s.Properties["price"].Value.Type)
	assert.Equal(t, openapi3.TypeInteger, s.Properties["count"].Value.Type)
	assert.Equal(t, []string{"count", "price"}, s.Required)
}

func TestParseObjectOneFieldBool(t *testing.T) {
	bs := []byte(`{"field": true}`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	assert.Equal(t, openapi3.TypeBoolean, s.Properties["field"].Value.Type)
}

func TestParseObjectOneFieldNull(t *testing.T) {
	bs := []byte(`{"field": null}`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	assert.Equal(t, "", s.Properties["field"].Value.Type)
	assert.True(t, s.Properties["field"].Value.Nullable)
}

func TestParseArrayEmpty(t *testing.T) {
	bs := []byte("[]")
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)
	assert.Equal(t, openapi3.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, "", s.Items.Value.Type)
}

func TestParseArrayCompositeHomogeneous(t *testing.T) {
	bs := []byte(`[{"a": 123}, {"b": "hi"}]`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)

	item := s.Items.Value
	assert.Equal(t, openapi3.TypeObject, item.Type)
	assert.Contains(t, item.Properties, "a")
	assert.Contains(t, item.Properties, "b")
	assert.Empty(t, item.Required)
}

func TestParseArrayCompositeHeterogeneous(t *testing.T) {
	bs := []byte(`[{"a": 123}, null]`)
	s, err := ParseSampleBodyBytes(bs)
	require.Nil(t, err)

	item := s.Items.Value
	assert.Equal(t, openapi3.TypeObject, item.Type)
	assert.True(t, item.Nullable)
}

func TestParseInvalid(t *testing.T) {
	_, err := ParseSampleBodyBytes([]byte("not json"))
	assert.NotNil(t, err)

	_, err = ParseSampleBodyBytes(nil)
	assert.NotNil(t, err)
}
