package record

import (
	"slices"
	"sort"
)

// Store maps module ids to their records.
type Store struct {
	names   []string
	records map[string]*ModuleRecord
}

// NewStore creates an empty store for the given parameter-name list.
func NewStore(names []string) *Store {
	return &Store{
		names:   slices.Clone(names),
		records: make(map[string]*ModuleRecord),
	}
}

// Names returns a copy of the parameter-name list.
func (s *Store) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		names:   slices.Clone(s.names),
		records: make(map[string]*ModuleRecord, len(s.records)),
	}
	for id, rec := range s.records {
		c.records[id] = rec.clone()
	}
	return c
}

// Initialize creates a record with empty timestamps and empty history.
func (s *Store) Initialize(moduleID string, params []string) error {
	id := NormalizeID(moduleID)
	if err := s.checkParams(id, params); err != nil {
		return err
	}
	if _, ok := s.records[id]; ok {
		return NewDuplicateKeyError(id)
	}
	s.records[id] = &ModuleRecord{
		ModuleID:   id,
		Parameters: slices.Clone(params),
		History:    []HistoryEntry{},
	}
	return nil
}

// Save records new parameter values at time now.
//
// Created is set on the first save only. Every save appends a history
// entry and updates Parameters and Modified.
func (s *Store) Save(moduleID string, params []string, now string) error {
	id := NormalizeID(moduleID)
	if err := s.checkParams(id, params); err != nil {
		return err
	}
	rec, ok := s.records[id]
	if !ok {
		return NewNotFoundError(id)
	}
	if rec.Created == "" {
		rec.Created = now
	}
	rec.History = append(rec.History, HistoryEntry{Timestamp: now, Parameters: slices.Clone(params)})
	rec.Parameters = slices.Clone(params)
	rec.Modified = now
	return nil
}

// Revert saves the parameters recorded steps entries before the latest
// history entry. History still only grows: the restored values become a new
// entry stamped now.
func (s *Store) Revert(moduleID string, steps int, now string) ([]string, error) {
	id := NormalizeID(moduleID)
	rec, ok := s.records[id]
	if !ok {
		return nil, NewNotFoundError(id)
	}
	if steps < 1 {
		return nil, NewInvalidInputError(id, "revert steps must be at least 1, got %d", steps)
	}
	idx := len(rec.History) - 1 - steps
	if idx < 0 {
		return nil, NewInvalidInputError(id, "cannot revert %d steps: history has %d entries", steps, len(rec.History))
	}
	params := slices.Clone(rec.History[idx].Parameters)
	if len(params) != len(s.names) {
		params, _ = fitParams(params, len(s.names))
	}
	if err := s.Save(id, params, now); err != nil {
		return nil, err
	}
	return params, nil
}

// Delete removes a record and its embedded history.
func (s *Store) Delete(moduleID string) error {
	id := NormalizeID(moduleID)
	if _, ok := s.records[id]; !ok {
		return NewNotFoundError(id)
	}
	delete(s.records, id)
	return nil
}

// Get returns a copy of the record for moduleID.
func (s *Store) Get(moduleID string) (ModuleRecord, error) {
	id := NormalizeID(moduleID)
	rec, ok := s.records[id]
	if !ok {
		return ModuleRecord{}, NewNotFoundError(id)
	}
	return *rec.clone(), nil
}

// IDs returns all module ids in ascending order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns copies of all records ordered by module id.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) Records() []ModuleRecord {
	out := make([]ModuleRecord, 0, len(s.records))
	for _, id := range s.IDs() {
		out = append(out, *s.records[id].clone())
	}
	return out
}

// Load installs records read from persistence, replacing any existing
// record with the same id.
//
// Current parameters are fitted to the name list: short lists are padded
// with empty values, long ones truncated. The ids whose truncation dropped a
// non-empty value are returned so the caller can warn about them. History
// entries are kept as stored.
func (s *Store) Load(records []ModuleRecord) (truncated []string) {
	for _, r := range records {
		id := NormalizeID(r.ModuleID)
		if id == "" {
			continue
		}
		rec := r.clone()
		rec.ModuleID = id
		if rec.History == nil {
			rec.History = []HistoryEntry{}
		}
		if len(rec.Parameters) != len(s.names) {
			var dropped bool
			rec.Parameters, dropped = fitParams(rec.Parameters, len(s.names))
			if dropped {
				truncated = append(truncated, id)
			}
		}
		s.records[id] = rec
	}
	return truncated
}

func (s *Store) checkParams(id string, params []string) error {
	if id == "" {
		return NewInvalidInputError(id, "module id must not be empty")
	}
	if len(params) != len(s.names) {
		return NewInvalidInputError(id, "expected %d parameter values, got %d", len(s.names), len(params))
	}
	return nil
}
