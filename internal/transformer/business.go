// Package transformer maps raw CSV records onto the business_info schema.
package transformer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"bizimport/internal/domain"
	"bizimport/pkg/records"
)

// Source column names.
const (
	SrcRetailerName = "retailer_name"
	SrcLocation     = "location"
	SrcCity         = "city"
	SrcState        = "state"
)

// RequiredColumns must be present in every source row.
var RequiredColumns = []string{SrcRetailerName, SrcLocation, SrcCity, SrcState}

// SchemaError reports source columns that the transform needs but the input
// does not carry.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source is missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// CheckHeader returns a *SchemaError when header lacks any RequiredColumns.
func CheckHeader(header []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Business is the row transform. NewID generates business_id values; nil
// means uuid.NewString.
type Business struct {
	NewID func() string
}

// Apply converts one batch. Output order matches input order and every
// record gets a fresh business_id. Missing or NaN values become nil. A row
// lacking any of RequiredColumns fails the whole batch with *SchemaError.
func (b Business) Apply(batch []records.Record) ([]domain.BusinessRecord, error) {
	newID := b.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	if err := checkBatch(batch); err != nil {
		return nil, err
	}

	out := make([]domain.BusinessRecord, len(batch))
	for i, rec := range batch {
		out[i] = domain.BusinessRecord{
			BusinessID: newID(),
			Name:       text(rec[SrcRetailerName]),
			Address:    text(rec[SrcLocation]),
			City:       text(rec[SrcCity]),
			State:      text(rec[SrcState]),
		}
	}
	return out, nil
}

func checkBatch(batch []records.Record) error {
	missing := map[string]struct{}{}
	for _, rec := range batch {
		for _, c := range RequiredColumns {
			if !rec.Has(c) {
				missing[c] = struct{}{}
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	cols := make([]string, 0, len(missing))
	for c := range missing {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return &SchemaError{Missing: cols}
}

// text converts a raw cell to a nullable string. nil and NaN floats are
// null; other non-string values are formatted with fmt.
func text(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case float64:
		if math.IsNaN(t) {
			return nil
		}
		s = fmt.Sprint(t)
	case float32:
		if math.IsNaN(float64(t)) {
			return nil
		}
		s = fmt.Sprint(t)
	default:
		s = fmt.Sprint(t)
	}
	return &s
}
