package tabular

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][]Row
	order  []string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][]Row)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) EnsureTable(ctx context.Context, name string, header Row) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[name]
	if !ok || len(rows) == 0 {
		stored := append(Row(nil), header...)
		s.sheets[name] = []Row{stored}
		if !ok {
			s.order = append(s.order, name)
		}
		return NewTable(name, stored), nil
	}
	return NewTable(name, rows[0]), nil
}

func (s *MemoryStore) ReadAll(ctx context.Context, t *Table) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sheets[t.Name]
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = append(Row(nil), r...)
	}
	return out, nil
}

func (s *MemoryStore) AppendRow(ctx context.Context, t *Table, values Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[t.Name]; !ok {
		return fmt.Errorf("%w: no such table %s", ErrStoreUnavailable, t.Name)
	}
	s.sheets[t.Name] = append(s.sheets[t.Name], append(Row(nil), values...))
	return nil
}

func (s *MemoryStore) WriteCell(ctx context.Context, t *Table, rowNumber, column int, value string) error {
	if column < 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[t.Name]
	if rowNumber < 1 || rowNumber > len(rows) {
		return fmt.Errorf("%w: row %d out of range in %s", ErrStoreUnavailable, rowNumber, t.Name)
	}
	r := rows[rowNumber-1]
	for len(r) <= column {
		r = append(r, "")
	}
	r[column] = value
	rows[rowNumber-1] = r
	return nil
}

func (s *MemoryStore) TableNames(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	return names, nil
}
