package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rpc", r.URL.Path)
		assert.Equal(t, "ListQueries", r.URL.Query().Get("rpcType"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ListQueries", body["rpcType"])

		_, _ = io.WriteString(w, `{"rpcType":"ListQueries","queries":[{"name":"users","source":{"type":"SqlFile"}},{"name":"orders"}]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", srv.Client())
	queries, err := client.ListQueries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Query{{Name: "users"}, {Name: "orders"}}, queries)
}

func TestClient_ExecQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ExecQuery", body["rpcType"])
		assert.Equal(t, "users", body["name"])
		assert.EqualValues(t, 2, body["page"])
		assert.EqualValues(t, 50, body["page_size"])
		assert.Equal(t, []any{map[string]any{"column": "age", "direction": "desc"}}, body["order_by"])

		_, _ = io.WriteString(w, `{"rpcType":"ExecQuery","total_count":120,"data":[["ann",31]],"schema":{"fields":[{"name":"name","data_type":"Utf8"},{"name":"age"}]}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	resp, err := client.ExecQuery(context.Background(), ExecQueryRequest{
		Name:     "users",
		Page:     2,
		PageSize: 50,
		OrderBy:  []Ordering{{Column: "age", Direction: Desc}},
	})
	require.NoError(t, err)
	assert.Equal(t, 120, resp.TotalCount)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, json.Number("31"), resp.Data[0][1])

	fields, ok := resp.Fields()
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Name)
	assert.Equal(t, "Utf8", fields[0].Attrs["data_type"])
}

func TestClient_ExecQuery_SendsEmptyOrderBy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{}, body["order_by"])
		_, _ = io.WriteString(w, `{"data":[],"total_count":0}`)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, nil).ExecQuery(context.Background(), ExecQueryRequest{Name: "q", Page: 1, PageSize: 100})
	require.NoError(t, err)
	_, ok := resp.Fields()
	assert.False(t, ok)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Query not found")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).ExecQuery(context.Background(), ExecQueryRequest{Name: "missing", Page: 1, PageSize: 10})
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "Query not found", terr.Body)
	assert.Equal(t, http.MethodPost, terr.Request.Method)
	assert.Equal(t, srv.URL+"/rpc?rpcType=ExecQuery", terr.Request.URL)
	assert.Equal(t, 500, terr.Response.Status)
	assert.Equal(t, "Internal Server Error", terr.Response.StatusText)
	assert.Contains(t, terr.Title(), "(500 Internal Server Error)")
}

func TestClient_TransportErrorBodyIsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, strings.Repeat("x", maxErrorBody+1024))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).ListQueries(context.Background())
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Len(t, terr.Body, maxErrorBody)
}

func TestClient_ConnectionFailureIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).ListQueries(context.Background())
	require.Error(t, err)

	var terr *TransportError
	assert.False(t, errors.As(err, &terr))
}

func TestExecQueryResponse_Fields(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		ok     bool
		names  []string
	}{
		{"missing", ``, false, nil},
		{"null", `null`, false, nil},
		{"array schema", `[{"name":"a"}]`, false, nil},
		{"fields not array", `{"fields":{"name":"a"}}`, false, nil},
		{"empty fields", `{"fields":[]}`, true, []string{}},
		{"non-object entry", `{"fields":[{"name":"a"},3]}`, true, []string{"a", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &ExecQueryResponse{Schema: json.RawMessage(tt.schema)}
			fields, ok := resp.Fields()
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			names := []string{}
			for _, f := range fields {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}
