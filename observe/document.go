package observe

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/siegeai/siegeprobe/infer"
)

// exchange is one request/response pair with identity-encoded bodies.
type exchange struct {
	method  string
	path    string
	status  int
	reqBody []byte
	resBody []byte
}

// exchangeDoc turns a single exchange into a one-operation document. Server
// errors say nothing about the API shape, so they yield nil.
func exchangeDoc(e *exchange) *openapi3.T {
	if 500 <= e.status && e.status < 600 {
		return nil
	}

	op := openapi3.NewOperation()
	op.RequestBody = requestBody(e)
	op.Responses = responses(e)

	path, params := templatePath(e.path)
	op.Parameters = params

	pathItem := &openapi3.PathItem{}
	pathItem.SetOperation(e.method, op)

	return &openapi3.T{
		OpenAPI: "3.0.0",
		Info:    &openapi3.Info{Title: "Observed", Version: "0.0.1"},
		Paths:   openapi3.Paths{path: pathItem},
	}
}

// templatePath replaces numeric and uuid segments with {argN} parameters.
func templatePath(p string) (string, openapi3.Parameters) {
	var params openapi3.Parameters
	parts := strings.Split(p, "/")
	res := make([]string, len(parts))
	for i, part := range parts {
		var sch *openapi3.Schema
		if _, err := strconv.Atoi(part); err == nil {
			sch = openapi3.NewIntegerSchema()
		} else if _, err := uuid.Parse(part); err == nil {
			sch = openapi3.NewUUIDSchema()
		}

		if sch == nil {
			res[i] = part
			continue
		}

		name := fmt.Sprintf("arg%d", len(params)+1)
		res[i] = "{" + name + "}"
		params = append(params, &openapi3.ParameterRef{
			Value: openapi3.NewPathParameter(name).WithSchema(sch),
		})
	}
	return strings.Join(res, "/"), params
}

func requestBody(e *exchange) *openapi3.RequestBodyRef {
	if len(e.reqBody) == 0 {
		return nil
	}

	// bodies the server rejected are not evidence of the accepted shape
	if e.status == http.StatusBadRequest || e.status == http.StatusUnprocessableEntity {
		return nil
	}

	sch, err := infer.ParseSampleBodyBytes(e.reqBody)
	if err != nil {
		return nil
	}

	rb := openapi3.NewRequestBody().WithJSONSchema(sch)
	return &openapi3.RequestBodyRef{Value: rb}
}

func responses(e *exchange) openapi3.Responses {
	code := strconv.Itoa(e.status)
	rs := openapi3.NewResponse().WithDescription(http.StatusText(e.status))

	if len(e.resBody) > 0 {
		if sch, err := infer.ParseSampleBodyBytes(e.resBody); err == nil {
			rs = rs.WithJSONSchema(sch)
		}
	}

	return openapi3.Responses{code: &openapi3.ResponseRef{Value: rs}}
}
