package ingestion

import (
	"time"

	"github.com/guttosm/fxpulse/internal/domain/models"
)

// Status summarizes how a pipeline cycle ended.
type Status string

const (
	StatusOK             Status = "ok"              // fresh batch merged and persisted
	StatusEmpty          Status = "empty"           // fetch produced no records and nothing is stored
	StatusTransportFault Status = "transport_fault" // quote API unreachable or non-200
	StatusParseFault     Status = "parse_fault"     // payload unusable
	StatusStorageFault   Status = "storage_fault"   // persisted table unreadable or save failed
)

// Result is the outcome of one Run. Table is always the best table available:
// the merged one on success, the persisted one on fetch faults.
type Result struct {
	Status  Status
	Table   []models.Record
	Added   int // records in the fresh batch
	Skipped int // quotes dropped during normalization
	Err     error
	At      time.Time
}

// Waiting reports that there is nothing to show yet.
func (r Result) Waiting() bool { return len(r.Table) == 0 }

// Fresh reports whether this cycle persisted new quotes.
func (r Result) Fresh() bool { return r.Status == StatusOK && r.Added > 0 }
