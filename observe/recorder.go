package observe

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/siegeai/siegeprobe/merge"
	"gopkg.in/yaml.v3"
)

// Recorder is an http.RoundTripper that infers an OpenAPI document from the
// traffic passing through it. Callers still get the full, untouched bodies.
type Recorder struct {
	next http.RoundTripper

	mu  sync.Mutex
	doc *openapi3.T
}

var _ http.RoundTripper = (*Recorder)(nil)

func NewRecorder(next http.RoundTripper) *Recorder {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Recorder{next: next}
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		bs, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		reqBody = bs

		// RoundTrippers must not modify the caller's request
		req = req.Clone(req.Context())
		req.Body = io.NopCloser(bytes.NewReader(bs))
	}

	res, err := r.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	resBody, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		// the caller gets the partial body and then the same read error
		slog.Warn("could not read response body", "url", req.URL, "err", err)
		res.Body = io.NopCloser(io.MultiReader(bytes.NewReader(resBody), errReader{err}))
		return res, nil
	}
	res.Body = io.NopCloser(bytes.NewReader(resBody))

	r.record(req, reqBody, res, resBody)
	return res, nil
}

type errReader struct {
	err error
}

func (e errReader) Read([]byte) (int, error) {
	return 0, e.err
}

func (r *Recorder) record(req *http.Request, reqBody []byte, res *http.Response, resBody []byte) {
	rb, rbErr := decodeBody(req.Header.Get("Content-Encoding"), reqBody)
	wb, wbErr := decodeBody(res.Header.Get("Content-Encoding"), resBody)
	if rbErr != nil || wbErr != nil {
		slog.Warn("could not decode body", "url", req.URL, "reqErr", rbErr, "resErr", wbErr)
		return
	}

	doc := exchangeDoc(&exchange{
		method:  req.Method,
		path:    req.URL.Path,
		status:  res.StatusCode,
		reqBody: rb,
		resBody: wb,
	})
	if doc == nil {
		return
	}

	slog.Debug("recorded exchange", "method", req.Method, "path", req.URL.Path, "status", res.StatusCode)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = merge.Doc(r.doc, doc)
}

// Doc returns the merged document, nil if nothing was recorded.
func (r *Recorder) Doc() *openapi3.T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc
}

// WriteFile writes the merged document as YAML for .yaml/.yml names and as
// indented JSON otherwise.
func (r *Recorder) WriteFile(name string) error {
	doc := r.Doc()
	if doc == nil {
		doc = &openapi3.T{
			OpenAPI: "3.0.0",
			Info:    &openapi3.Info{Title: "Observed", Version: "0.0.1"},
			Paths:   openapi3.Paths{},
		}
	}

	bs, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		bs, err = jsonToYAML(bs)
		if err != nil {
			return err
		}
	}

	return os.WriteFile(name, bs, 0o644)
}

func jsonToYAML(bs []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(bs, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

// clearStyle drops the flow style yaml picks up from the JSON input so the
// output is block style.
func clearStyle(n *yaml.Node) {
	n.Style = n.Style &^ yaml.FlowStyle
	for _, c := range n.Content {
		clearStyle(c)
	}
}
