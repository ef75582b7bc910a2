package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrasoul/records-api/internal/model"
)

func sampleBatch() []model.OrderRecord {
	return []model.OrderRecord{
		{
			OrderID:   "ORD-1",
			FullName:  "Asha Verma",
			Email:     "asha@example.com",
			Gender:    "Female",
			Amount:    500,
			OrderDate: ts("2024-01-10 09:00:00"),
		},
		{
			OrderID:            "ORD-2",
			FullName:           "Rahul Mehta",
			PhoneNumber:        "9876543210",
			Gender:             "male",
			Amount:             1500,
			OrderDate:          ts("2024-01-15 12:00:00"),
			AdditionalProducts: []string{"Gemstone Report", "Career Report"},
		},
		{
			OrderID:   "ORD-3",
			FullName:  "Priya Nair",
			Gender:    "female",
			Amount:    200,
			OrderDate: ts("2024-01-15 18:00:00"),
		},
	}
}

func TestFilterMinAmountScenario(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.MinAmount = f64(300)

	got := Filter(sampleBatch(), spec, ts("2024-01-20 00:00:00").Time)
	assert.Equal(t, []string{"ORD-1", "ORD-2"}, orderIDs(got))
}

func TestFilterPreservesInputOrder(t *testing.T) {
	spec := model.DefaultFilterSpec()
	got := Filter(sampleBatch(), spec, ts("2024-01-20 00:00:00").Time)
	assert.Equal(t, []string{"ORD-1", "ORD-2", "ORD-3"}, orderIDs(got))
}

func TestFilterSearch(t *testing.T) {
	now := ts("2024-01-20 00:00:00").Time

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case-insensitive name", "ASHA", []string{"ORD-1"}},
		{"order id", "ord-2", []string{"ORD-2"}},
		{"phone", "98765", []string{"ORD-2"}},
		{"product", "gemstone", []string{"ORD-2"}},
		{"missing email still matches on name", "rahul", []string{"ORD-2"}},
		{"no hit", "nonexistent", []string{}},
		{"blank matches everything", "   ", []string{"ORD-1", "ORD-2", "ORD-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := model.DefaultFilterSpec()
			spec.SearchText = tt.query
			got := Filter(sampleBatch(), spec, now)
			assert.Equal(t, tt.want, orderIDs(got))
		})
	}
}

func TestFilterGender(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.Gender = "female"

	got := Filter(sampleBatch(), spec, ts("2024-01-20 00:00:00").Time)
	// case-insensitive exact match: "Female" and "female" both hit
	assert.Equal(t, []string{"ORD-1", "ORD-3"}, orderIDs(got))
}

func TestFilterDateBounded(t *testing.T) {
	now := ts("2024-01-15 23:00:00").Time

	spec := model.DefaultFilterSpec()
	spec.DateMode = model.DateModeToday
	got := Filter(sampleBatch(), spec, now)
	assert.Equal(t, []string{"ORD-2", "ORD-3"}, orderIDs(got))
}

func TestFilterRecordWithoutTimestamp(t *testing.T) {
	batch := append(sampleBatch(), model.OrderRecord{OrderID: "ORD-4", Amount: 900})
	now := ts("2024-01-20 00:00:00").Time

	t.Run("kept under all", func(t *testing.T) {
		spec := model.DefaultFilterSpec()
		got := Filter(batch, spec, now)
		assert.Contains(t, orderIDs(got), "ORD-4")
	})

	t.Run("excluded from any bounded view", func(t *testing.T) {
		spec := model.DefaultFilterSpec()
		spec.DateMode = model.DateModeCustom
		spec.CustomFrom = tp("2020-01-01 00:00:00")
		got := Filter(batch, spec, now)
		assert.NotContains(t, orderIDs(got), "ORD-4")
	})
}

func TestFilterFallsBackToCreatedAt(t *testing.T) {
	batch := []model.OrderRecord{
		{OrderID: "ORD-5", CreatedAt: ts("2024-01-15 10:00:00")},
	}
	spec := model.DefaultFilterSpec()
	spec.DateMode = model.DateModeToday

	got := Filter(batch, spec, ts("2024-01-15 20:00:00").Time)
	assert.Equal(t, []string{"ORD-5"}, orderIDs(got))
}

func TestFilterInvertedCustomRangeMatchesNothing(t *testing.T) {
	spec := model.DefaultFilterSpec()
	spec.DateMode = model.DateModeCustom
	spec.CustomFrom = tp("2024-02-01 00:00:00")
	spec.CustomTo = tp("2024-01-01 00:00:00")

	got := Filter(sampleBatch(), spec, ts("2024-03-01 00:00:00").Time)
	assert.Empty(t, got)
}

// Predicates compose as a pure AND: applying dimensions one at a time, in
// any order, equals applying them at once.
func TestFilterComposition(t *testing.T) {
	now := ts("2024-01-20 00:00:00").Time
	batch := sampleBatch()

	combined := model.DefaultFilterSpec()
	combined.Gender = "female"
	combined.MinAmount = f64(300)
	combined.SearchText = "asha"

	atOnce := Filter(batch, combined, now)

	genderOnly := model.DefaultFilterSpec()
	genderOnly.Gender = "female"
	amountOnly := model.DefaultFilterSpec()
	amountOnly.MinAmount = f64(300)
	searchOnly := model.DefaultFilterSpec()
	searchOnly.SearchText = "asha"

	ordered := Filter(Filter(Filter(batch, genderOnly, now), amountOnly, now), searchOnly, now)
	reversed := Filter(Filter(Filter(batch, searchOnly, now), amountOnly, now), genderOnly, now)

	require.Equal(t, orderIDs(atOnce), orderIDs(ordered))
	require.Equal(t, orderIDs(atOnce), orderIDs(reversed))
}

// Narrowing any one dimension never grows the result set.
func TestFilterMonotonicity(t *testing.T) {
	now := ts("2024-01-20 00:00:00").Time
	batch := sampleBatch()

	base := model.DefaultFilterSpec()
	baseLen := len(Filter(batch, base, now))

	narrowed := []model.FilterSpec{
		func() model.FilterSpec { s := base; s.SearchText = "asha"; return s }(),
		func() model.FilterSpec { s := base; s.Gender = "male"; return s }(),
		func() model.FilterSpec { s := base; s.MinAmount = f64(1000); return s }(),
		func() model.FilterSpec { s := base; s.MaxAmount = f64(400); return s }(),
		func() model.FilterSpec { s := base; s.DateMode = model.DateModeYesterday; return s }(),
	}
	for _, spec := range narrowed {
		assert.LessOrEqual(t, len(Filter(batch, spec, now)), baseLen)
	}
}
