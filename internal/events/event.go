// Package events decodes the server's push channel into domain events.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned for payloads whose eventType is not recognized
var ErrUnknownEvent = errors.New("unknown event type")

// Event is a domain event pushed by the server. The set of implementations
// is closed: Ping and QueryUpdated.
type Event interface {
	isEvent()
}

// Ping is a liveness heartbeat
type Ping struct {
	Data string
}

// QueryUpdated reports that the named query's results may have changed
type QueryUpdated struct {
	Name string
}

func (Ping) isEvent()         {}
func (QueryUpdated) isEvent() {}

type envelope struct {
	EventType string  `json:"eventType"`
	Data      string  `json:"data"`
	Name      *string `json:"name"`
}

// Decode parses one push payload
func Decode(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	switch env.EventType {
	case "Ping":
		return Ping{Data: env.Data}, nil
	case "QueryUpdated":
		if env.Name == nil {
			return nil, fmt.Errorf("decode event: QueryUpdated without name")
		}
		return QueryUpdated{Name: *env.Name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.EventType)
	}
}
