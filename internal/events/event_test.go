package events

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	ev, err := Decode([]byte(`{"eventType":"Ping","data":"keepalive"}`))
	require.NoError(t, err)
	assert.Equal(t, Ping{Data: "keepalive"}, ev)

	ev, err = Decode([]byte(`{"eventType":"QueryUpdated","name":"users"}`))
	require.NoError(t, err)
	assert.Equal(t, QueryUpdated{Name: "users"}, ev)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode([]byte(`{"eventType":"TableDropped","name":"users"}`))
	assert.True(t, errors.Is(err, ErrUnknownEvent))

	_, err = Decode([]byte(`{"eventType":"QueryUpdated"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`Error: channel lagged by 3`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownEvent))
}

func TestReader_Next(t *testing.T) {
	stream := strings.Join([]string{
		`:keep-alive-text`,
		``,
		`data: {"eventType":"Ping","data":"Hello from the server!"}`,
		``,
		`event: message`,
		`id: 7`,
		`data:{"eventType":"QueryUpdated",`,
		`data: "name":"users"}`,
		``,
		`retry: 1000`,
		``,
		`data: trailing`,
	}, "\r\n")

	r := NewReader(strings.NewReader(stream))

	msg, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"eventType":"Ping","data":"Hello from the server!"}`, string(msg))

	msg, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "{\"eventType\":\"QueryUpdated\",\n\"name\":\"users\"}", string(msg))

	msg, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "trailing", string(msg))

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestHTTPSource_Open(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"eventType\":\"QueryUpdated\",\"name\":\"q\"}\n\n")
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL + "/sse", Client: srv.Client()}
	body, err := src.Open(context.Background())
	require.NoError(t, err)
	defer body.Close()

	msg, err := NewReader(body).Next()
	require.NoError(t, err)
	ev, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, QueryUpdated{Name: "q"}, ev)
}

func TestHTTPSource_OpenRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := (&HTTPSource{URL: srv.URL + "/sse"}).Open(context.Background())
	assert.Error(t, err)
}
