package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/turbolytics/rowset/internal"
)

/*
The catalog is a record of what a snapshot run processed.
The catalog is a primitive for verifying, inventorying and auditing
data operations.
*/

// Catalog records the outcome of a single snapshot run.
type Catalog struct {
	SnapshotID          string    `json:"snapshot_id"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	Source              string    `json:"source"`
	Query               string    `json:"query"`
	NumSourceRecords    int       `json:"num_source_records"`
	NumRecordsProcessed int       `json:"num_records_processed"`
	Success             bool      `json:"success"`
}

// Write serializes the catalog and stores it next to the snapshot
// artifacts in the repository.
func (c *Catalog) Write(ctx context.Context, repository internal.Repository) error {
	bs, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return repository.Write(ctx, "catalog.json", bytes.NewReader(bs))
}
