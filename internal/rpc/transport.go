// internal/rpc/transport.go
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
)

// Direction is the sort direction of an ordering clause
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Ordering is one entry of the order_by list sent with ExecQuery
type Ordering struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Query is a named query exposed by the server
type Query struct {
	Name string `json:"name"`
}

// ListQueriesResponse is returned by the ListQueries call
type ListQueriesResponse struct {
	Queries []Query `json:"queries"`
}

// ExecQueryRequest asks the server for one page of a named query
type ExecQueryRequest struct {
	Name     string     `json:"name"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	OrderBy  []Ordering `json:"order_by"`
}

// ExecQueryResponse carries one page of results.
// Schema is kept raw because the server sends whatever its engine reports.
type ExecQueryResponse struct {
	Data       [][]any         `json:"data"`
	TotalCount int             `json:"total_count"`
	Schema     json.RawMessage `json:"schema,omitempty"`
}

// Field is one schema entry. Only the name is interpreted; the rest is opaque.
type Field struct {
	Name  string
	Attrs map[string]any
}

// Fields returns the schema fields when the response carries a schema
// object whose "fields" member is an array. ok is false otherwise.
func (r *ExecQueryResponse) Fields() (fields []Field, ok bool) {
	if len(r.Schema) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(r.Schema))
	dec.UseNumber()
	var schema map[string]any
	if err := dec.Decode(&schema); err != nil || schema == nil {
		return nil, false
	}

	raw, isArray := schema["fields"].([]any)
	if !isArray {
		return nil, false
	}

	fields = make([]Field, 0, len(raw))
	for _, entry := range raw {
		attrs, _ := entry.(map[string]any)
		name, _ := attrs["name"].(string)
		fields = append(fields, Field{Name: name, Attrs: attrs})
	}
	return fields, true
}

// Transport defines the request/response calls the client needs from a server
type Transport interface {
	ListQueries(ctx context.Context) ([]Query, error)
	ExecQuery(ctx context.Context, req ExecQueryRequest) (*ExecQueryResponse, error)
}
