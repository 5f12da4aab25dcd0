package record

import (
	"slices"
	"sort"
)

// ImportRows merges spreadsheet rows into the store in the given order.
//
// An unseen module id creates a record stamped with the row's timestamp and
// an empty history. A known id whose values differ from its current
// parameters gets a history entry and takes the row's values and timestamp.
// Rows equal to the current parameters are counted as unchanged.
//
// Row values are padded or truncated to the name list. Rows without a module
// id are skipped.
func (s *Store) ImportRows(rows []Row) ImportResult {
	var res ImportResult
	for _, row := range rows {
		id := NormalizeID(row.ModuleID)
		if id == "" {
			res.Skipped++
			continue
		}
		params, _ := fitParams(row.Parameters, len(s.names))

		rec, ok := s.records[id]
		if !ok {
			s.records[id] = &ModuleRecord{
				ModuleID:   id,
				Parameters: params,
				Created:    row.Timestamp,
				Modified:   row.Timestamp,
				History:    []HistoryEntry{},
			}
			res.Created++
			continue
		}
		if ParamsEqual(rec.Parameters, params) {
			res.Unchanged++
			continue
		}
		rec.History = append(rec.History, HistoryEntry{Timestamp: row.Timestamp, Parameters: slices.Clone(params)})
		rec.Parameters = params
		rec.Modified = row.Timestamp
		res.Updated++
	}
	return res
}

// ExportAll flattens every record into rows: one for the current state and
// one per history entry. Rows are sorted by timestamp, newest first. Equal
// timestamps fall back to module id, then current state before history,
// then history order.
func (s *Store) ExportAll() []Row {
	type keyed struct {
		row  Row
		rank int
	}

	var all []keyed
	for _, id := range s.IDs() {
		rec := s.records[id]
		all = append(all, keyed{
			row:  Row{Timestamp: rec.Modified, ModuleID: id, Parameters: slices.Clone(rec.Parameters)},
			rank: 0,
		})
		for i, h := range rec.History {
			all = append(all, keyed{
				row:  Row{Timestamp: h.Timestamp, ModuleID: id, Parameters: slices.Clone(h.Parameters)},
				rank: i + 1,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.row.Timestamp != b.row.Timestamp {
			return a.row.Timestamp > b.row.Timestamp
		}
		if a.row.ModuleID != b.row.ModuleID {
			return a.row.ModuleID < b.row.ModuleID
		}
		return a.rank < b.rank
	})

	rows := make([]Row, len(all))
	for i, k := range all {
		rows[i] = k.row
	}
	return rows
}
