package records

import (
	"strings"
	"time"

	"github.com/astrasoul/records-api/internal/model"
)

// Filter returns the records satisfying every predicate of spec, preserving
// input order. Malformed or missing fields make a record fail the relevant
// predicate; they never abort the pass.
func Filter(recs []model.OrderRecord, spec model.FilterSpec, now time.Time) []model.OrderRecord {
	dateRange := ResolveDateRange(spec.DateMode, now, spec.CustomFrom, spec.CustomTo)
	query := strings.ToLower(strings.TrimSpace(spec.SearchText))
	gender := strings.ToLower(strings.TrimSpace(spec.Gender))

	out := make([]model.OrderRecord, 0, len(recs))
	for _, rec := range recs {
		if !matchesDate(&rec, spec.DateMode, dateRange) {
			continue
		}
		if query != "" && !strings.Contains(searchBlob(&rec), query) {
			continue
		}
		if gender != "" && gender != model.GenderAll &&
			strings.ToLower(rec.Gender) != gender {
			continue
		}
		if spec.MinAmount != nil && float64(rec.Amount) < *spec.MinAmount {
			continue
		}
		if spec.MaxAmount != nil && float64(rec.Amount) > *spec.MaxAmount {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// matchesDate excludes records without a usable timestamp from any
// date-bounded view. Mode "all" keeps them.
func matchesDate(rec *model.OrderRecord, mode model.DateMode, r DateRange) bool {
	if mode == model.DateModeAll || mode == "" {
		return true
	}
	ts, ok := rec.EffectiveTime()
	if !ok {
		return false
	}
	return r.Contains(ts)
}

// searchBlob concatenates the searchable fields in lower case. Absent
// fields contribute an empty segment so a record missing one field can
// still match on another.
func searchBlob(rec *model.OrderRecord) string {
	parts := []string{
		rec.OrderID,
		rec.InternalID,
		rec.FullName,
		rec.Email,
		rec.PhoneNumber,
		rec.PlaceOfBirth,
		rec.Gender,
		strings.Join(rec.AdditionalProducts, ", "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}
