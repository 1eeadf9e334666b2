package history

import (
	"context"
	"strings"
	"sync"
)

// MemStore keeps records in process memory, scoped to the session.
type MemStore struct {
	mu   sync.RWMutex
	recs []Record
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemStore) List(_ context.Context, opts ListOpts) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(opts.Q))
	out := make([]Record, 0, len(s.recs))
	for _, r := range s.recs {
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		out = append(out, r)
	}
	return pageOf(out, opts.Limit, opts.Offset), nil
}

func (s *MemStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs), nil
}

func matchesQuery(r Record, q string) bool {
	return strings.Contains(strings.ToLower(r.Metrics.StudentName), q) ||
		strings.Contains(strings.ToLower(r.Metrics.StudentID), q) ||
		strings.Contains(strings.ToLower(r.Metrics.Subject), q)
}

func pageOf(recs []Record, limit, offset int) []Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(recs) {
		return []Record{}
	}
	recs = recs[offset:]
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs
}
