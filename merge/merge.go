package merge

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Refs are never followed. When either side of a ref pair carries a $ref the left
// side wins unchanged.

func Doc(a, b *openapi3.T) *openapi3.T {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	return &openapi3.T{
		Extensions:   a.Extensions,
		OpenAPI:      mergeString(a.OpenAPI, b.OpenAPI),
		Components:   Components(a.Components, b.Components),
		Info:         Info(a.Info, b.Info),
		Paths:        Paths(a.Paths, b.Paths),
		Security:     a.Security,
		Servers:      Servers(a.Servers, b.Servers),
		Tags:         a.Tags,
		ExternalDocs: a.ExternalDocs,
	}
}

func Components(a, b *openapi3.Components) *openapi3.Components {
	if a == nil {
		return b
	}
	return a
}

func Info(a, b *openapi3.Info) *openapi3.Info {
	if a == nil {
		return b
	}
	return a
}

func Servers(a, b openapi3.Servers) openapi3.Servers {
	if len(a) == 0 {
		return b
	}
	return a
}

func Paths(a, b openapi3.Paths) openapi3.Paths {
	res := make(openapi3.Paths, max(len(a), len(b)))
	for k, v := range a {
		res[k] = v
	}
	for k, w := range b {
		res[k] = PathItem(res[k], w)
	}
	return res
}

func PathItem(a, b *openapi3.PathItem) *openapi3.PathItem {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Ref != "" || b.Ref != "" {
		return a
	}

	return &openapi3.PathItem{
		Extensions:  a.Extensions,
		Summary:     mergeString(a.Summary, b.Summary),
		Description: mergeString(a.Description, b.Description),
		Connect:     Operation(a.Connect, b.Connect),
		Delete:      Operation(a.Delete, b.Delete),
		Get:         Operation(a.Get, b.Get),
		Head:        Operation(a.Head, b.Head),
		Options:     Operation(a.Options, b.Options),
		Patch:       Operation(a.Patch, b.Patch),
		Post:        Operation(a.Post, b.Post),
		Put:         Operation(a.Put, b.Put),
		Trace:       Operation(a.Trace, b.Trace),
		Servers:     Servers(a.Servers, b.Servers),
		Parameters:  Parameters(a.Parameters, b.Parameters),
	}
}

func Operation(a, b *openapi3.Operation) *openapi3.Operation {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	return &openapi3.Operation{
		Extensions:   a.Extensions,
		Tags:         a.Tags,
		Summary:      mergeString(a.Summary, b.Summary),
		Description:  mergeString(a.Description, b.Description),
		OperationID:  mergeString(a.OperationID, b.OperationID),
		Parameters:   Parameters(a.Parameters, b.Parameters),
		RequestBody:  RequestBodyRef(a.RequestBody, b.RequestBody),
		Responses:    Responses(a.Responses, b.Responses),
		Deprecated:   a.Deprecated || b.Deprecated,
		ExternalDocs: a.ExternalDocs,
	}
}

// Parameters keeps the order of a and appends parameters of b that a does not
// have, matching on (in, name).
func Parameters(a, b openapi3.Parameters) openapi3.Parameters {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}

	res := make(openapi3.Parameters, 0, len(a)+len(b))
	seen := make(map[[2]string]int, len(a))
	for _, p := range a {
		if p != nil && p.Value != nil {
			seen[[2]string{p.Value.In, p.Value.Name}] = len(res)
		}
		res = append(res, p)
	}
	for _, p := range b {
		if p == nil || p.Value == nil {
			continue
		}
		k := [2]string{p.Value.In, p.Value.Name}
		if i, in := seen[k]; in {
			if res[i].Ref == "" && p.Ref == "" && res[i].Value.Schema != nil && p.Value.Schema != nil {
				v := *res[i].Value
				v.Schema = SchemaRef(v.Schema, p.Value.Schema)
				res[i] = &openapi3.ParameterRef{Value: &v}
			}
			continue
		}
		seen[k] = len(res)
		res = append(res, p)
	}
	return res
}

func RequestBodyRef(a, b *openapi3.RequestBodyRef) *openapi3.RequestBodyRef {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Ref != "" || b.Ref != "" || a.Value == nil || b.Value == nil {
		return a
	}

	return &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
		Extensions:  a.Value.Extensions,
		Description: mergeString(a.Value.Description, b.Value.Description),
		Required:    a.Value.Required || b.Value.Required,
		Content:     Content(a.Value.Content, b.Value.Content),
	}}
}

func Content(a, b openapi3.Content) openapi3.Content {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	c := make(openapi3.Content, max(len(a), len(b)))
	for k, v := range a {
		c[k] = v
	}
	for k, w := range b {
		c[k] = MediaType(c[k], w)
	}
	return c
}

func MediaType(a, b *openapi3.MediaType) *openapi3.MediaType {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	return &openapi3.MediaType{
		Extensions: a.Extensions,
		Schema:     SchemaRef(a.Schema, b.Schema),
		Example:    a.Example,
		Examples:   a.Examples,
		Encoding:   a.Encoding,
	}
}

func Responses(a, b openapi3.Responses) openapi3.Responses {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	rs := make(openapi3.Responses, max(len(a), len(b)))
	for k, v := range a {
		rs[k] = v
	}
	for k, w := range b {
		rs[k] = ResponseRef(rs[k], w)
	}
	return rs
}

func ResponseRef(a, b *openapi3.ResponseRef) *openapi3.ResponseRef {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Ref != "" || b.Ref != "" || a.Value == nil || b.Value == nil {
		return a
	}

	return &openapi3.ResponseRef{Value: Response(a.Value, b.Value)}
}

func Response(a, b *openapi3.Response) *openapi3.Response {
	return &openapi3.Response{
		Extensions:  a.Extensions,
		Description: mergeStringPtr(a.Description, b.Description),
		Headers:     Headers(a.Headers, b.Headers),
		Content:     Content(a.Content, b.Content),
		Links:       a.Links,
	}
}

func Headers(a, b openapi3.Headers) openapi3.Headers {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}

	rs := make(openapi3.Headers, max(len(a), len(b)))
	for k, v := range a {
		rs[k] = v
	}
	for k, w := range b {
		if _, in := rs[k]; !in {
			rs[k] = w
		}
	}
	return rs
}

func SchemaRef(a, b *openapi3.SchemaRef) *openapi3.SchemaRef {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Ref != "" || b.Ref != "" || a.Value == nil || b.Value == nil {
		return a
	}

	return Schema(a.Value, b.Value).NewRef()
}

// Schema merges two inferred schemas into one that accepts values of both.
// Untyped schemas (a bare null or an empty array's items) only contribute their
// nullable flag.
func Schema(a, b *openapi3.Schema) *openapi3.Schema {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	if isUntyped(a) {
		return withNullable(b, a.Nullable)
	}
	if isUntyped(b) {
		return withNullable(a, b.Nullable)
	}

	if a.Type == b.Type && a.Type != "" {
		return mergeSchemaSameType(a, b)
	}
	return mergeSchemaDifferentType(a, b)
}

func isUntyped(s *openapi3.Schema) bool {
	return s.Type == "" && len(s.OneOf) == 0 && len(s.AnyOf) == 0 && len(s.AllOf) == 0
}

func withNullable(s *openapi3.Schema, nullable bool) *openapi3.Schema {
	if !nullable || s.Nullable {
		return s
	}
	c := *s
	c.Nullable = true
	return &c
}

func mergeSchemaSameType(a, b *openapi3.Schema) *openapi3.Schema {
	return &openapi3.Schema{
		Type:        a.Type,
		Title:       mergeString(a.Title, b.Title),
		Format:      mergeFormat(a.Format, b.Format),
		Description: mergeString(a.Description, b.Description),
		Nullable:    a.Nullable || b.Nullable,
		ReadOnly:    a.ReadOnly || b.ReadOnly,
		WriteOnly:   a.WriteOnly || b.WriteOnly,
		Items:       SchemaRef(a.Items, b.Items),
		Required:    mergeRequired(a.Required, b.Required),
		Properties:  Schemas(a.Properties, b.Properties),
	}
}

// mergeSchemaDifferentType produces a oneOf with one branch per distinct type.
func mergeSchemaDifferentType(a, b *openapi3.Schema) *openapi3.Schema {
	branches := make(map[string]*openapi3.Schema)
	order := make([]string, 0, 2)
	nullable := false

	for _, s := range append(flatten(a), flatten(b)...) {
		nullable = nullable || s.Nullable
		if prev, in := branches[s.Type]; in {
			branches[s.Type] = Schema(prev, s)
			continue
		}
		branches[s.Type] = s
		order = append(order, s.Type)
	}

	oneOf := make(openapi3.SchemaRefs, 0, len(order))
	for _, t := range order {
		oneOf = append(oneOf, branches[t].NewRef())
	}

	return &openapi3.Schema{
		OneOf:       oneOf,
		Title:       mergeString(a.Title, b.Title),
		Description: mergeString(a.Description, b.Description),
		Nullable:    nullable,
	}
}

func flatten(s *openapi3.Schema) []*openapi3.Schema {
	if s.Type != "" {
		return []*openapi3.Schema{s}
	}
	res := make([]*openapi3.Schema, 0, len(s.OneOf))
	for _, r := range s.OneOf {
		if r != nil && r.Value != nil {
			res = append(res, r.Value)
		}
	}
	return res
}

// mergeRequired keeps the fields required by both sides, in the order of a.
func mergeRequired(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, r := range b {
		inB[r] = struct{}{}
	}

	res := make([]string, 0, min(len(a), len(b)))
	for _, r := range a {
		if _, in := inB[r]; in {
			res = append(res, r)
		}
	}
	return res
}

func Schemas(a, b openapi3.Schemas) openapi3.Schemas {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	rs := make(openapi3.Schemas, max(len(a), len(b)))
	for k, v := range a {
		rs[k] = v
	}
	for k, w := range b {
		rs[k] = SchemaRef(rs[k], w)
	}
	return rs
}

// a format seen on only one side does not hold for both
func mergeFormat(a, b string) string {
	if a == b {
		return a
	}
	return ""
}

func mergeStringPtr(a, b *string) *string {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	s := mergeString(*a, *b)
	return &s
}

func mergeString(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if len(b) > len(a) {
		return b
	}
	return a
}
