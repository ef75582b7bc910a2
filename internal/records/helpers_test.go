package records

import (
	"time"

	"github.com/astrasoul/records-api/internal/model"
)

func ts(s string) model.Timestamp {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		panic(err)
	}
	return model.Timestamp{Time: t}
}

func tp(s string) *time.Time {
	t := ts(s).Time
	return &t
}

func orderIDs(recs []model.OrderRecord) []string {
	ids := make([]string, len(recs))
	for i := range recs {
		ids[i] = recs[i].OrderID
	}
	return ids
}

func f64(v float64) *float64 { return &v }
