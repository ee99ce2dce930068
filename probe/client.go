package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	Endpoint string
	HTTP     *http.Client
}

var (
	ErrEmptyEndpoint = errors.New("empty endpoint")
)

type ClientOpt func(*Client)

func WithHTTPClient(c *http.Client) ClientOpt {
	return func(client *Client) {
		client.HTTP = c
	}
}

func NewClient(endpoint string, opts ...ClientOpt) (*Client, error) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	client := &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// CreateItem posts item to /items/ and returns the response body whatever the
// status code.
func (c *Client) CreateItem(ctx context.Context, item Item) ([]byte, error) {
	return c.Invoke(ctx, http.MethodPost, "/items/", &item)
}

// Invoke sends method to path, with body encoded as JSON when it is not nil,
// and returns the response body whatever the status code.
func (c *Client) Invoke(ctx context.Context, method, path string, body any) ([]byte, error) {
	var r io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.formatURL(path), r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req)
}

func (c *Client) GetItem(ctx context.Context, id string) ([]byte, error) {
	u := c.formatURL("/items/" + url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) FetchSchema(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.formatURL("/openapi.json"), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return io.ReadAll(res.Body)
}

func (c *Client) formatURL(path string) string {
	return fmt.Sprintf("%s%s", c.Endpoint, path)
}
