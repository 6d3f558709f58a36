package events

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxLineSize bounds a single SSE line
const maxLineSize = 1 << 20

// Reader splits a server-sent events stream into message payloads.
// Only data fields are kept; comments and other fields are skipped.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps an SSE response body
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Reader{scanner: s}
}

// Next returns the next complete message payload. It returns io.EOF when
// the stream ends cleanly.
func (r *Reader) Next() ([]byte, error) {
	var data []string
	hasData := false

	for r.scanner.Scan() {
		line := strings.TrimSuffix(r.scanner.Text(), "\r")

		if line == "" {
			if hasData {
				return []byte(strings.Join(data, "\n")), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, found := strings.Cut(line, ":")
		if found {
			value = strings.TrimPrefix(value, " ")
		}
		if field == "data" {
			data = append(data, value)
			hasData = true
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		return []byte(strings.Join(data, "\n")), nil
	}
	return nil, io.EOF
}

// HTTPSource opens SSE subscriptions against a server's /sse endpoint
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Open starts one subscription. The caller owns the returned body.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build subscribe request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("subscribe: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
