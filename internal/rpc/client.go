// internal/rpc/client.go
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxErrorBody caps how much of a failed response is kept for display
const maxErrorBody = 4 << 20

// Client talks to a frogtable server over its /rpc endpoint
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListQueries returns the queries the server knows about
func (c *Client) ListQueries(ctx context.Context) ([]Query, error) {
	var resp ListQueriesResponse
	if err := c.call(ctx, "ListQueries", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return resp.Queries, nil
}

// ExecQuery fetches one page of a named query
func (c *Client) ExecQuery(ctx context.Context, req ExecQueryRequest) (*ExecQueryResponse, error) {
	if req.OrderBy == nil {
		req.OrderBy = []Ordering{}
	}
	var resp ExecQueryResponse
	if err := c.call(ctx, "ExecQuery", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call posts a request tagged with rpcType and decodes the tagged response
func (c *Client) call(ctx context.Context, rpcType string, req any, out any) error {
	body, err := tagged(rpcType, req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", rpcType, err)
	}

	endpoint := c.baseURL + "/rpc?rpcType=" + url.QueryEscape(rpcType)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", rpcType, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", rpcType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Body:     string(text),
			Request:  RequestInfo{Method: httpReq.Method, URL: endpoint},
			Response: ResponseInfo{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)},
		}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", rpcType, err)
	}
	return nil
}

// tagged merges {"rpcType": rpcType} into the JSON object encoding of req
func tagged(rpcType string, req any) ([]byte, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(rpcType)
	fields["rpcType"] = tag
	return json.Marshal(fields)
}
