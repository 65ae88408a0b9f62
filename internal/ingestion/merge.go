package ingestion

import (
	"fmt"
	"strings"

	"github.com/guttosm/fxpulse/internal/domain/models"
)

// MergePolicy selects how a fresh batch is folded into the persisted table.
type MergePolicy string

const (
	// MergeKey keeps every record, dropping later duplicates of the same
	// (capture instant, asset) key.
	MergeKey MergePolicy = "key"
	// MergeWindow deduplicates like MergeKey and then retains only the
	// trailing Window records.
	MergeWindow MergePolicy = "window"
)

const DefaultWindow = 100

// ParseMergePolicy maps a config value to a policy; blank means MergeKey.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeKey:
		return MergeKey, nil
	case MergeWindow:
		return MergeWindow, nil
	default:
		return "", fmt.Errorf("unknown merge policy %q", s)
	}
}

// MergeByKey appends batch to table and drops records whose key was already
// seen, keeping the first occurrence. Neither input is modified.
func MergeByKey(table, batch []models.Record) []models.Record {
	out := make([]models.Record, 0, len(table)+len(batch))
	seen := make(map[models.RecordKey]struct{}, len(table)+len(batch))
	for _, src := range [][]models.Record{table, batch} {
		for _, r := range src {
			k := r.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

// MergeTrailing is MergeByKey followed by keeping the last n records.
// n <= 0 disables the bound.
func MergeTrailing(table, batch []models.Record, n int) []models.Record {
	out := MergeByKey(table, batch)
	if n > 0 && len(out) > n {
		out = append([]models.Record(nil), out[len(out)-n:]...)
	}
	return out
}
