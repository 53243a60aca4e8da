package history

import (
	"context"
	"sort"
	"sync"
)

// DefaultMemoryRecords bounds a MemoryStore built with a non-positive size.
const DefaultMemoryRecords = 10000

// MemoryStore keeps the newest records for the life of the process,
// dropping the oldest once full. Records without a patient reference are
// not kept since ListByPatient can never return them.
type MemoryStore struct {
	mu      sync.RWMutex
	max     int
	records []Record
}

func NewMemoryStore(maxRecords int) *MemoryStore {
	if maxRecords <= 0 {
		maxRecords = DefaultMemoryRecords
	}
	return &MemoryStore{max: maxRecords}
}

func (s *MemoryStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.PatientRef == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) >= s.max {
		n := copy(s.records, s.records[1:])
		clear(s.records[n:])
		s.records = s.records[:n]
	}
	s.records = append(s.records, rec)
	return nil
}

// Len reports how many records are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) ListByPatient(ctx context.Context, patientRef string, limit int) ([]Record, error) {
	if err := checkListArgs(patientRef, limit); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []Record
	for _, r := range s.records {
		if r.PatientRef == patientRef {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
