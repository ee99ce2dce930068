package infer

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/siegeai/siegeprobe/merge"
)

func NewObjectSchema(props map[string]*openapi3.Schema) *openapi3.Schema {
	ps := make(openapi3.Schemas, len(props))
	rs := make([]string, 0, len(props))
	for k, v := range props {
		ps[k] = v.NewRef()
		rs = append(rs, k)
	}
	sort.Strings(rs)
	return &openapi3.Schema{
		Type:       openapi3.TypeObject,
		Required:   rs,
		Properties: ps,
	}
}

// NewArraySchema merges every element schema into a single items schema. Empty
// arrays get an items schema with no type.
func NewArraySchema(elems []*openapi3.Schema) *openapi3.Schema {
	var item *openapi3.Schema
	for _, e := range elems {
		item = merge.Schema(item, e)
	}
	if item == nil {
		item = &openapi3.Schema{}
	}
	return &openapi3.Schema{
		Type:  openapi3.TypeArray,
		Items: item.NewRef(),
	}
}

func NewStringSchema(s string) *openapi3.Schema {
	// only uuid for now, dates and emails would be next
	if _, err := uuid.Parse(s); err == nil {
		return &openapi3.Schema{
			Type:   openapi3.TypeString,
			Format: "uuid",
		}
	}
	return &openapi3.Schema{
		Type: openapi3.TypeString,
	}
}

func NewNumberSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Type: openapi3.TypeNumber,
	}
}

func NewIntegerSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Type: openapi3.TypeInteger,
	}
}

func NewBooleanSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Type: openapi3.TypeBoolean,
	}
}

// NewNullSchema has no type, only the nullable flag. merge.Schema folds it into
// whatever typed schema it meets.
func NewNullSchema() *openapi3.Schema {
	return &openapi3.Schema{
		Nullable: true,
	}
}
