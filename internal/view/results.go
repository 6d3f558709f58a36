// internal/view/results.go
package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/nhath/frogtable/internal/rpc"
)

// FetchToken identifies an issued fetch. Later fetches have larger tokens.
type FetchToken uint64

// Fetch is an issued request waiting to be executed
type Fetch struct {
	Token   FetchToken
	Request rpc.ExecQueryRequest
	Started time.Time
}

// Outcome is the result of executing a Fetch
type Outcome struct {
	Token    FetchToken
	Request  rpc.ExecQueryRequest
	Response *rpc.ExecQueryResponse
	Err      error
	Duration time.Duration
}

// Execute runs f against t. It blocks, so callers run it off the update loop.
func Execute(ctx context.Context, t rpc.Transport, f Fetch) Outcome {
	start := time.Now()
	resp, err := t.ExecQuery(ctx, f.Request)
	return Outcome{
		Token:    f.Token,
		Request:  f.Request,
		Response: resp,
		Err:      err,
		Duration: time.Since(start),
	}
}

// Snapshot is a read-only view of the store
type Snapshot struct {
	// Data is nil before any fetch and empty while one is loading
	Data       [][]any
	Schema     []rpc.Field
	TotalCount int
	Duration   time.Duration
	FetchedAt  time.Time
	Err        *rpc.TransportError
	Loading    bool
	// DataGen changes whenever Data does
	DataGen uint64
}

// ResultStore owns the fetched page of the selected query. Only the
// outcome of the latest issued fetch is applied.
type ResultStore struct {
	logger *slog.Logger

	latest  FetchToken
	pending bool

	data      [][]any
	schema    []rpc.Field
	total     int
	duration  time.Duration
	fetchedAt time.Time
	err       *rpc.TransportError
	dataGen   uint64
}

// NewResultStore creates an empty store
func NewResultStore(logger *slog.Logger) *ResultStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ResultStore{logger: logger}
}

// Begin issues a new fetch for req and marks the store as loading
func (s *ResultStore) Begin(req rpc.ExecQueryRequest, now time.Time) Fetch {
	s.latest++
	s.pending = true
	s.data = [][]any{}
	s.dataGen++
	s.fetchedAt = now
	return Fetch{Token: s.latest, Request: req, Started: now}
}

// Latest returns the most recently issued token
func (s *ResultStore) Latest() FetchToken {
	return s.latest
}

// Apply applies o if it belongs to the latest fetch. schemaChanged is set
// when a different schema was adopted.
func (s *ResultStore) Apply(o Outcome) (applied, schemaChanged bool) {
	if o.Token != s.latest {
		s.logger.Debug("discarding superseded fetch", "query", o.Request.Name, "token", o.Token, "latest", s.latest)
		return false, false
	}
	s.pending = false

	if o.Err != nil {
		var terr *rpc.TransportError
		if !errors.As(o.Err, &terr) {
			s.logger.Warn("fetch failed", "query", o.Request.Name, "token", o.Token, "error", o.Err)
			return false, false
		}
		s.logger.Info("fetch rejected", "query", o.Request.Name, "token", o.Token, "status", terr.Response.Status)
		s.err = terr
		return true, false
	}

	resp := o.Response
	if resp == nil {
		resp = &rpc.ExecQueryResponse{}
	}
	s.data = resp.Data
	if s.data == nil {
		s.data = [][]any{}
	}
	s.dataGen++
	s.total = resp.TotalCount
	s.duration = o.Duration
	s.err = nil

	if fields, ok := resp.Fields(); ok {
		schemaChanged = s.schema == nil || !slices.EqualFunc(fields, s.schema, func(a, b rpc.Field) bool {
			return a.Name == b.Name
		})
		s.schema = fields
	}
	return true, schemaChanged
}

// Reset clears everything shown for the previous query. In-flight fetches
// are invalidated.
func (s *ResultStore) Reset() {
	s.latest++
	s.pending = false
	s.data = nil
	s.schema = nil
	s.total = 0
	s.err = nil
	s.dataGen++
}

// Snapshot returns what is currently shown
func (s *ResultStore) Snapshot() Snapshot {
	return Snapshot{
		Data:       s.data,
		Schema:     s.schema,
		TotalCount: s.total,
		Duration:   s.duration,
		FetchedAt:  s.fetchedAt,
		Err:        s.err,
		Loading:    s.pending,
		DataGen:    s.dataGen,
	}
}
