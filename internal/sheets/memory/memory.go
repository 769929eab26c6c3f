package memory

import (
	"context"
	"sync"

	ports "tripledger/internal/sheets"
)

// Store is an in-memory spreadsheet used by tests and the memory backend.
// Fixtures are keyed by the full A1 range spec, matching how the pipeline
// reads data.
type Store struct {
	mu     sync.Mutex
	names  []string
	ranges map[string][][]string
}

var (
	_ ports.Source       = (*Store)(nil)
	_ ports.SourceOpener = (*Store)(nil)
)

func New() *Store {
	return &Store{ranges: make(map[string][][]string)}
}

// SetSheets sets the sheet titles returned by SheetNames.
func (s *Store) SetSheets(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append([]string(nil), names...)
}

// SetRange stores the cell block served for a range spec.
func (s *Store) SetRange(rangeSpec string, block [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[rangeSpec] = block
}

// Open returns the store itself; the memory backend holds one spreadsheet
// regardless of year.
func (s *Store) Open(_ context.Context, _ string) (ports.Source, error) {
	return s, nil
}

func (s *Store) SheetNames(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...), nil
}

func (s *Store) ReadRange(_ context.Context, rangeSpec string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	block, ok := s.ranges[rangeSpec]
	if !ok {
		return nil, nil
	}
	out := make([][]string, len(block))
	for i, row := range block {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}
