// internal/grid/layout.go
package grid

import (
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/nhath/frogtable/internal/kv"
)

// OrderKey is the storage key of a query's column order
func OrderKey(query string) string {
	return "columnOrder-" + query
}

// SizingKey is the storage key of a query's column sizing
func SizingKey(query string) string {
	return "columnSizing-" + query
}

// LayoutStore loads and saves per-query column layouts.
// Malformed stored values are deleted and replaced by defaults.
type LayoutStore struct {
	store  kv.Store
	logger *slog.Logger
}

func NewLayoutStore(store kv.Store, logger *slog.Logger) *LayoutStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LayoutStore{store: store, logger: logger}
}

// LoadOrder returns the stored order for query reconciled against ids
func (s *LayoutStore) LoadOrder(query string, ids []string) []string {
	key := OrderKey(query)
	raw, ok := s.read(key)
	if !ok {
		return ReconcileOrder(nil, ids)
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.discard(key, "invalid json", err)
		return ReconcileOrder(nil, ids)
	}
	items, isArray := decoded.([]any)
	if !isArray {
		s.discard(key, "not an array", nil)
		return ReconcileOrder(nil, ids)
	}
	stored := make([]string, 0, len(items))
	for _, item := range items {
		id, isString := item.(string)
		if !isString {
			s.discard(key, "non-string entry", nil)
			return ReconcileOrder(nil, ids)
		}
		stored = append(stored, id)
	}
	return ReconcileOrder(stored, ids)
}

// LoadSizing returns the stored widths for query, keeping only valid ids
func (s *LayoutStore) LoadSizing(query string, ids []string) map[string]float64 {
	sizing := make(map[string]float64)
	key := SizingKey(query)
	raw, ok := s.read(key)
	if !ok {
		return sizing
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.discard(key, "invalid json", err)
		return sizing
	}
	obj, isObject := decoded.(map[string]any)
	if !isObject {
		s.discard(key, "not an object", nil)
		return sizing
	}
	for id, v := range obj {
		width, isNumber := v.(float64)
		if !isNumber {
			s.discard(key, "non-numeric width", nil)
			return make(map[string]float64)
		}
		if slices.Contains(ids, id) {
			sizing[id] = width
		}
	}
	return sizing
}

// SaveOrder writes the column order of query
func (s *LayoutStore) SaveOrder(query string, order []string) {
	s.write(OrderKey(query), order)
}

// SaveSizing writes the column widths of query
func (s *LayoutStore) SaveSizing(query string, sizing map[string]float64) {
	s.write(SizingKey(query), sizing)
}

func (s *LayoutStore) read(key string) (string, bool) {
	raw, ok, err := s.store.Get(key)
	if err != nil {
		s.logger.Warn("reading layout", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

func (s *LayoutStore) write(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("encoding layout", "key", key, "error", err)
		return
	}
	if err := s.store.Set(key, string(b)); err != nil {
		s.logger.Warn("saving layout", "key", key, "error", err)
	}
}

func (s *LayoutStore) discard(key, reason string, err error) {
	s.logger.Warn("discarding stored layout", "key", key, "reason", reason, "error", err)
	if err := s.store.Delete(key); err != nil {
		s.logger.Warn("deleting layout", "key", key, "error", err)
	}
}

// ReconcileOrder makes stored a permutation of ids: unknown and repeated
// entries are dropped and ids it lacks are prepended in schema order
func ReconcileOrder(stored, ids []string) []string {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	seen := make(map[string]bool, len(stored))
	filtered := make([]string, 0, len(stored))
	for _, id := range stored {
		if known[id] && !seen[id] {
			seen[id] = true
			filtered = append(filtered, id)
		}
	}

	order := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			order = append(order, id)
		}
	}
	return append(order, filtered...)
}

// MoveColumn removes dragged from order and reinserts it at target's position.
// The input is not modified.
func MoveColumn(order []string, dragged, target string) []string {
	next := slices.Clone(order)
	from := slices.Index(next, dragged)
	to := slices.Index(next, target)
	if dragged == target || from < 0 || to < 0 {
		return next
	}
	next = slices.Delete(next, from, from+1)
	return slices.Insert(next, to, dragged)
}
