// internal/view/coordinator.go
package view

import "github.com/nhath/frogtable/internal/events"

// RefreshCoordinator decides whether a pushed event should refetch the
// selected query. Once a refresh is triggered, further events for the same
// query are ignored until a fetch completes.
type RefreshCoordinator struct {
	selected     string
	suppressed   bool
	forceRefresh bool
}

// Select scopes the coordinator to a query and clears suppression
func (c *RefreshCoordinator) Select(name string) {
	c.selected = name
	c.suppressed = false
}

// Observe reports whether ev should force a refetch
func (c *RefreshCoordinator) Observe(ev events.Event) bool {
	updated, ok := ev.(events.QueryUpdated)
	if !ok || updated.Name != c.selected || c.selected == "" {
		return false
	}
	if c.suppressed {
		return false
	}
	c.suppressed = true
	c.forceRefresh = !c.forceRefresh
	return true
}

// FetchCompleted clears suppression. Call it when the latest fetch resolves.
func (c *RefreshCoordinator) FetchCompleted() {
	c.suppressed = false
}

func (c *RefreshCoordinator) Suppressed() bool {
	return c.suppressed
}

// ForceRefresh is a parity bit that flips on every triggered refresh
func (c *RefreshCoordinator) ForceRefresh() bool {
	return c.forceRefresh
}
