// internal/history/entry.go
package history

import (
	"fmt"
	"time"
)

// Status of a recorded fetch
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusSuperseded = "superseded"
)

// Entry is one resolved fetch
type Entry struct {
	ID           int64
	Server       string
	Query        string
	Page         int
	PageSize     int
	OrderBy      string // e.g. "name asc, id desc"
	FetchedAt    time.Time
	DurationMs   int64
	RowCount     int
	TotalCount   int
	Status       string
	ErrorMessage string
}

// Summary is the one-line form shown in the history popup
func (e *Entry) Summary() string {
	s := fmt.Sprintf("%s p%d/%d", e.Query, e.Page, e.PageSize)
	if e.OrderBy != "" {
		s += " by " + e.OrderBy
	}
	return s
}

// ErrorPreview returns a truncated error message
func (e *Entry) ErrorPreview(maxLen int) string {
	msg := e.ErrorMessage
	if maxLen > 3 && len(msg) > maxLen {
		return msg[:maxLen-3] + "..."
	}
	return msg
}
