// Package localfile reads and writes the JSON data file that caches module
// records between runs.
//
// The document maps each module id to its record:
//
//	{
//	  "W-1": {
//	    "parameters": ["5V", "2A"],
//	    "created": "2024-01-01 10:00:00",
//	    "modified": "2024-01-02 10:00:00",
//	    "history": [{"timestamp": "2024-01-01 10:00:00", "parameters": ["5V", "2A"]}]
//	  }
//	}
//
// Writes replace the whole file through a temp file and rename.
package localfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/roach88/wiretrack/internal/record"
)

// File is a JSON data file on disk.
type File struct {
	Path string
}

// New returns a File for path.
func New(path string) *File {
	return &File{Path: path}
}

// Load reads all records from the file.
// A missing file yields an empty slice and no error.
func (f *File) Load() ([]record.ModuleRecord, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return []record.ModuleRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	return Decode(data)
}

// Save writes every record to the file, replacing its previous contents.
func (f *File) Save(records []record.ModuleRecord) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Decode parses a data document. Records come back ordered by module id.
func Decode(data []byte) ([]record.ModuleRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []record.ModuleRecord{}, nil
	}
	var doc map[string]record.ModuleRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	records := make([]record.ModuleRecord, 0, len(doc))
	for id, rec := range doc {
		rec.ModuleID = id
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ModuleID < records[j].ModuleID
	})
	return records, nil
}

// Encode renders records as an indented data document with sorted keys.
func Encode(records []record.ModuleRecord) ([]byte, error) {
	doc := make(map[string]record.ModuleRecord, len(records))
	for _, rec := range records {
		if rec.Parameters == nil {
			rec.Parameters = []string{}
		}
		if rec.History == nil {
			rec.History = []record.HistoryEntry{}
		}
		doc[rec.ModuleID] = rec
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode data file: %w", err)
	}
	return append(data, '\n'), nil
}
