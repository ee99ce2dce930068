package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	s, err := newServer("http://127.0.0.1:8000")
	require.Nil(t, err)
	s.populateTestItems()
	s.setupRoutes()

	ts := httptest.NewServer(s.router)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body string) (int, map[string]any) {
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.Nil(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	defer res.Body.Close()

	var out map[string]any
	require.Nil(t, json.NewDecoder(res.Body).Decode(&out))
	return res.StatusCode, out
}

func TestCreateItem(t *testing.T) {
	ts := newTestServer(t)

	code, out := doJSON(t, http.MethodPost, ts.URL+"/items/",
		`{"name":"Laptop","description":"High-end device","price":1500.0,"tax":150.0}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Laptop", out["name"])
	assert.Equal(t, 1500.0, out["price"])

	res, err := http.Get(ts.URL + "/items/")
	require.Nil(t, err)
	defer res.Body.Close()

	// created items are not stored
	var items []map[string]any
	require.Nil(t, json.NewDecoder(res.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Surface Laptop", items[0]["name"])
}

func TestCreateItemInvalid(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct {
		body string
		loc  []any
		typ  string
	}{
		{`{"description":"no name","price":1.0}`, []any{"body", "name"}, "missing"},
		{`{"name":"Laptop","price":"expensive"}`, []any{"body", "price"}, "value_error"},
		{`not json`, []any{"body"}, "json_invalid"},
	} {
		code, out := doJSON(t, http.MethodPost, ts.URL+"/items/", tc.body)
		assert.Equal(t, http.StatusUnprocessableEntity, code, tc.body)

		detail, ok := out["detail"].([]any)
		require.True(t, ok, tc.body)
		require.Len(t, detail, 1, tc.body)
		first := detail[0].(map[string]any)
		assert.Equal(t, tc.loc, first["loc"], tc.body)
		assert.Equal(t, tc.typ, first["type"], tc.body)
		assert.NotEmpty(t, first["msg"], tc.body)
	}
}

func TestReadItem(t *testing.T) {
	ts := newTestServer(t)

	code, out := doJSON(t, http.MethodGet, ts.URL+"/items/123", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Sample", out["name"])
	assert.Equal(t, 100.0, out["price"])

	code, out = doJSON(t, http.MethodGet, ts.URL+"/items/abc", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	detail, ok := out["detail"].([]any)
	require.True(t, ok)
	require.Len(t, detail, 1)
	first := detail[0].(map[string]any)
	assert.Equal(t, []any{"path", "item_id"}, first["loc"])
	assert.Equal(t, "int_parsing", first["type"])
	assert.Equal(t, "abc", first["input"])
}

func TestStore(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/store/items")
	require.Nil(t, err)
	defer res.Body.Close()

	var items []map[string]any
	require.Nil(t, json.NewDecoder(res.Body).Decode(&items))
	assert.Len(t, items, 4)
	assert.Equal(t, 1.0, items[0]["id"])

	code, out := doJSON(t, http.MethodPost, ts.URL+"/store/buy", `{"product_id":2,"buyer_name":"Ada","quantity":2}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Thank you Ada for your purchase!", out["message"])
	assert.InDelta(t, 2*49.99+2*4.99, out["total_price"], 1e-9)

	code, out = doJSON(t, http.MethodPost, ts.URL+"/store/buy", `{"product_id":3,"buyer_name":"Ada"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, out["quantity"])

	code, out = doJSON(t, http.MethodPost, ts.URL+"/store/buy", `{"product_id":99,"buyer_name":"Ada"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product with ID 99 not found.", out["detail"])
}

func TestOpenAPIDocument(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/openapi.json")
	require.Nil(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	bs, err := io.ReadAll(res.Body)
	require.Nil(t, err)

	doc, err := openapi3.NewLoader().LoadFromData(bs)
	require.Nil(t, err)
	require.Nil(t, doc.Validate(context.Background()))

	assert.Equal(t, "Demo API", doc.Info.Title)
	require.Len(t, doc.Servers, 1)
	assert.Equal(t, "http://127.0.0.1:8000", doc.Servers[0].URL)
	require.Contains(t, doc.Paths, "/items/")
	assert.Equal(t, "create_item_items__post", doc.Paths["/items/"].Post.OperationID)
	assert.Equal(t, "read_item_items__item_id__get", doc.Paths["/items/{item_id}"].Get.OperationID)
	assert.Contains(t, doc.Paths, "/store/buy")

	invalid := doc.Paths["/items/"].Post.Responses["422"].Value.Content["application/json"].Schema.Value
	assert.Equal(t, "HTTPValidationError", invalid.Title)
	assert.Equal(t, openapi3.TypeArray, invalid.Properties["detail"].Value.Type)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/items/123")
	require.Nil(t, err)
	res.Body.Close()

	res, err = http.Get(ts.URL + "/metrics")
	require.Nil(t, err)
	defer res.Body.Close()

	bs, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	assert.Contains(t, string(bs), `fakejsonserver_requests_total{code="200",method="GET",route="/items/{item_id}"}`)
}
