package records

import (
	"sort"

	"github.com/astrasoul/records-api/internal/model"
)

// Sort returns a new slice ordered by field and direction. The sort is
// stable: records with equal keys keep their relative input order, and the
// input slice is not modified. A record without a usable timestamp sorts
// with key 0, i.e. to the oldest end before direction is applied.
func Sort(recs []model.OrderRecord, field model.SortField, dir model.SortDir) []model.OrderRecord {
	out := make([]model.OrderRecord, len(recs))
	copy(out, recs)

	key := func(rec *model.OrderRecord) float64 {
		if field == model.SortByAmount {
			return float64(rec.Amount)
		}
		ts, ok := rec.EffectiveTime()
		if !ok {
			return 0
		}
		return float64(ts.UnixMilli())
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := key(&out[i]), key(&out[j])
		if dir == model.SortDesc {
			return a > b
		}
		return a < b
	})
	return out
}
