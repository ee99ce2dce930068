package schemacheck

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeDoc = `{
  "openapi": "3.0.0",
  "info": {"title": "Demo API", "version": "1.0.0"},
  "paths": {
    "/items/": {
      "post": {"operationId": "create_item_items__post", "summary": "Create an Item",
        "responses": {"200": {"description": "ok"}}},
      "get": {"operationId": "list_items_items__get", "summary": "List All Items",
        "responses": {"200": {"description": "ok"}}}
    },
    "/items/{item_id}": {
      "get": {
        "parameters": [{"name": "item_id", "in": "path", "required": true, "schema": {"type": "integer"}}],
        "responses": {"200": {"description": "ok"}}
      }
    }
  }
}`

const fakeDocYAML = `openapi: 3.0.0
info:
  title: Fake Store API
  version: 1.0.0
paths:
  /store/items:
    get:
      operationId: list_store_items_store_items_get
      responses:
        "200":
          description: ok
`

func TestLoadFunctionsJSON(t *testing.T) {
	name := filepath.Join(t.TempDir(), "fake_openapi.json")
	require.Nil(t, os.WriteFile(name, []byte(fakeDoc), 0o644))

	fs, err := LoadFunctions(context.Background(), name)
	require.Nil(t, err)
	require.Len(t, fs, 3)

	assert.Equal(t, "list_items_items__get", fs[0].Name)
	assert.Equal(t, "GET", fs[0].Method)
	assert.Equal(t, "/items/", fs[0].Path)

	assert.Equal(t, "create_item_items__post", fs[1].Name)
	assert.Equal(t, "Create an Item", fs[1].Summary)

	assert.Equal(t, "get_items_item_id", fs[2].Name)
	assert.Equal(t, []string{"item_id"}, fs[2].Params)
}

func TestLoadFunctionsYAML(t *testing.T) {
	name := filepath.Join(t.TempDir(), "shop_openapi.yaml")
	require.Nil(t, os.WriteFile(name, []byte(fakeDocYAML), 0o644))

	fs, err := LoadFunctions(context.Background(), name)
	require.Nil(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "list_store_items_store_items_get", fs[0].Name)
}

func TestLoadFunctionsNoOperations(t *testing.T) {
	name := filepath.Join(t.TempDir(), "empty.json")
	doc := `{"openapi": "3.0.0", "info": {"title": "x", "version": "1"}, "paths": {}}`
	require.Nil(t, os.WriteFile(name, []byte(doc), 0o644))

	_, err := LoadFunctions(context.Background(), name)
	assert.ErrorIs(t, err, ErrNoOperations)
}

func TestLoadFunctionsNotJSON(t *testing.T) {
	name := filepath.Join(t.TempDir(), "broken.json")
	require.Nil(t, os.WriteFile(name, []byte("{not json"), 0o644))

	_, err := LoadFunctions(context.Background(), name)
	assert.NotNil(t, err)
}

func TestWriteFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	fs := []Function{{Name: "create_item_items__post", Method: "POST", Path: "/items/", Summary: "Create an Item"}}

	require.Nil(t, WriteFunctions(buf, fs))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Function: create_item_items__post POST /items/ - Create an Item", lines[0])
	assert.Equal(t, strings.Repeat("-", 40), lines[1])
}

func TestFindOperation(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromData([]byte(fakeDoc))
	require.Nil(t, err)

	f, op, err := FindOperation(doc, "create_item_items__post")
	require.Nil(t, err)
	assert.Equal(t, "POST", f.Method)
	assert.Equal(t, "/items/", f.Path)
	assert.Equal(t, "Create an Item", op.Summary)

	f, _, err = FindOperation(doc, "get_items_item_id")
	require.Nil(t, err)
	assert.Equal(t, "/items/{item_id}", f.Path)
	assert.Equal(t, []string{"item_id"}, f.Params)

	_, _, err = FindOperation(doc, "delete_everything")
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestServerURL(t *testing.T) {
	doc, err := openapi3.NewLoader().LoadFromData([]byte(fakeDoc))
	require.Nil(t, err)

	_, err = ServerURL(doc)
	assert.ErrorIs(t, err, ErrNoServers)

	doc.Servers = openapi3.Servers{{URL: "http://127.0.0.1:8000"}}
	u, err := ServerURL(doc)
	require.Nil(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", u)

	doc.Servers = openapi3.Servers{{
		URL:       "http://{host}:8000",
		Variables: map[string]*openapi3.ServerVariable{"host": {Default: "localhost"}},
	}}
	u, err = ServerURL(doc)
	require.Nil(t, err)
	assert.Equal(t, "http://localhost:8000", u)
}
