package records

import (
	"math"
	"time"

	"github.com/astrasoul/records-api/internal/model"
)

// Summarize computes the stats strip for a record set. A missing amount
// counts as 0; the average rounds to the nearest whole currency unit and is
// 0 for an empty set. MostRecent is nil when no record carries a usable
// timestamp.
func Summarize(recs []model.OrderRecord) model.RecordSummary {
	summary := model.RecordSummary{Count: len(recs)}

	var latest time.Time
	for i := range recs {
		summary.TotalAmount += float64(recs[i].Amount)
		if ts, ok := recs[i].EffectiveTime(); ok && ts.After(latest) {
			latest = ts
		}
	}
	if summary.Count > 0 {
		summary.AverageAmount = int64(math.Round(summary.TotalAmount / float64(summary.Count)))
	}
	if !latest.IsZero() {
		summary.MostRecent = &latest
	}
	return summary
}
