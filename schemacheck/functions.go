package schemacheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	ErrNoOperations      = errors.New("document has no operations")
	ErrOperationNotFound = errors.New("operation not found")
	ErrNoServers         = errors.New("document has no servers")
)

// Function is one callable operation of an OpenAPI document.
type Function struct {
	Name    string
	Method  string
	Path    string
	Summary string
	Params  []string
}

func (f Function) String() string {
	s := fmt.Sprintf("%s %s %s", f.Name, f.Method, f.Path)
	if len(f.Params) > 0 {
		s += fmt.Sprintf(" (%s)", strings.Join(f.Params, ", "))
	}
	if f.Summary != "" {
		s += " - " + f.Summary
	}
	return s
}

// LoadFunctions loads a JSON or YAML OpenAPI document and lists its operations
// sorted by path then method. A document that fails structural validation is
// still listed.
func LoadFunctions(ctx context.Context, name string) ([]Function, error) {
	doc, err := LoadDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return Functions(doc)
}

// LoadDocument loads a JSON or YAML OpenAPI document without following
// external refs.
func LoadDocument(ctx context.Context, name string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	loader.Context = ctx

	doc, err := loader.LoadFromFile(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if err := doc.Validate(ctx); err != nil {
		slog.Warn("document does not validate", "file", name, "err", err)
	}
	return doc, nil
}

// FindOperation resolves an operation by its id, or by the generated name
// Functions lists for operations without one.
func FindOperation(doc *openapi3.T, id string) (Function, *openapi3.Operation, error) {
	for p, item := range doc.Paths {
		if item == nil {
			continue
		}
		for m, op := range item.Operations() {
			if functionName(op, m, p) != id {
				continue
			}
			f := Function{
				Name:    id,
				Method:  m,
				Path:    p,
				Summary: op.Summary,
				Params:  paramNames(item.Parameters, op.Parameters),
			}
			return f, op, nil
		}
	}
	return Function{}, nil, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
}

// ServerURL is the first server of doc with its variables set to their
// defaults.
func ServerURL(doc *openapi3.T) (string, error) {
	if len(doc.Servers) == 0 || doc.Servers[0] == nil || doc.Servers[0].URL == "" {
		return "", ErrNoServers
	}

	srv := doc.Servers[0]
	u := srv.URL
	for name, v := range srv.Variables {
		if v != nil {
			u = strings.ReplaceAll(u, "{"+name+"}", v.Default)
		}
	}
	return u, nil
}

func Functions(doc *openapi3.T) ([]Function, error) {
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var fs []Function
	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}

		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for m := range ops {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, m := range methods {
			op := ops[m]
			fs = append(fs, Function{
				Name:    functionName(op, m, p),
				Method:  m,
				Path:    p,
				Summary: op.Summary,
				Params:  paramNames(item.Parameters, op.Parameters),
			})
		}
	}

	if len(fs) == 0 {
		return nil, ErrNoOperations
	}
	return fs, nil
}

func WriteFunctions(w io.Writer, fs []Function) error {
	for _, f := range fs {
		if _, err := fmt.Fprintf(w, "Function: %s\n%s\n", f, strings.Repeat("-", 40)); err != nil {
			return err
		}
	}
	return nil
}

func functionName(op *openapi3.Operation, method, path string) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	r := strings.NewReplacer("/", "_", "{", "", "}", "", ".", "_", "-", "_")
	return strings.ToLower(method) + r.Replace(path)
}

func paramNames(shared, own openapi3.Parameters) []string {
	var res []string
	for _, ps := range []openapi3.Parameters{shared, own} {
		for _, p := range ps {
			if p != nil && p.Value != nil {
				res = append(res, p.Value.Name)
			}
		}
	}
	return res
}
