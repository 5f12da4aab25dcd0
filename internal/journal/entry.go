package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Op names a journaled tracker operation.
type Op string

const (
	OpInitialize Op = "initialize"
	OpSave       Op = "save"
	OpRevert     Op = "revert"
	OpDelete     Op = "delete"
	OpImport     Op = "import"
	OpExport     Op = "export"
)

// Entry is one journaled operation.
type Entry struct {
	Seq        int64             `json:"seq"`
	ID         string            `json:"id"`
	Op         Op                `json:"op"`
	ModuleID   string            `json:"module_id,omitempty"`
	Timestamp  string            `json:"timestamp"`
	Parameters []string          `json:"parameters,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
}

// Filter narrows Read results. Zero values match everything.
type Filter struct {
	ModuleID string
	Op       Op
	// Limit keeps only the newest Limit entries (still returned oldest first).
	Limit int
}

// newEntryID generates a time-sortable UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func newEntryID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Append writes an entry and returns it with Seq and ID filled in.
// An ID already set on e is kept.
func (j *Journal) Append(ctx context.Context, e Entry) (Entry, error) {
	if e.Op == "" {
		return Entry{}, fmt.Errorf("append entry: op is required")
	}
	if e.ID == "" {
		e.ID = newEntryID()
	}

	params := e.Parameters
	if params == nil {
		params = []string{}
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: marshal parameters: %w", err)
	}
	detail := e.Detail
	if detail == nil {
		detail = map[string]string{}
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: marshal detail: %w", err)
	}

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO entries (id, op, module_id, timestamp, parameters, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		string(e.Op),
		e.ModuleID,
		e.Timestamp,
		string(paramsJSON),
		string(detailJSON),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("append entry: last insert id: %w", err)
	}
	e.Seq = seq
	return e, nil
}

// Read returns entries matching f, ordered by seq ascending.
// Returns an empty slice (not nil) when nothing matches.
func (j *Journal) Read(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.ModuleID != "" {
		where = append(where, "module_id = ?")
		args = append(args, f.ModuleID)
	}
	if f.Op != "" {
		where = append(where, "op = ?")
		args = append(args, string(f.Op))
	}

	query := "SELECT seq, id, op, module_id, timestamp, parameters, detail FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Limit > 0 {
		// Newest N, then flip back to ascending order.
		query = "SELECT * FROM (" + query + " ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC"
		args = append(args, f.Limit)
	} else {
		query += " ORDER BY seq ASC"
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e                      Entry
			op, params, detailJSON string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &op, &e.ModuleID, &e.Timestamp, &params, &detailJSON); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Op = Op(op)
		if err := json.Unmarshal([]byte(params), &e.Parameters); err != nil {
			return nil, fmt.Errorf("unmarshal parameters (seq=%d): %w", e.Seq, err)
		}
		if err := json.Unmarshal([]byte(detailJSON), &e.Detail); err != nil {
			return nil, fmt.Errorf("unmarshal detail (seq=%d): %w", e.Seq, err)
		}
		if len(e.Parameters) == 0 {
			e.Parameters = nil
		}
		if len(e.Detail) == 0 {
			e.Detail = nil
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
