package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateMode is a named quick-filter preset resolved to a concrete interval.
type DateMode string

const (
	DateModeToday     DateMode = "today"
	DateModeYesterday DateMode = "yesterday"
	DateModeLast7Days DateMode = "7d"
	DateModeThisMonth DateMode = "month"
	DateModeCustom    DateMode = "custom"
	DateModeAll       DateMode = "all"
)

func ParseDateMode(s string) (DateMode, bool) {
	switch DateMode(strings.ToLower(strings.TrimSpace(s))) {
	case DateModeToday:
		return DateModeToday, true
	case DateModeYesterday:
		return DateModeYesterday, true
	case DateModeLast7Days:
		return DateModeLast7Days, true
	case DateModeThisMonth:
		return DateModeThisMonth, true
	case DateModeCustom:
		return DateModeCustom, true
	case DateModeAll:
		return DateModeAll, true
	}
	return "", false
}

type SortField string

const (
	SortByOrderDate SortField = "orderDate"
	SortByAmount    SortField = "amount"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

const (
	GenderAll    = "all"
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Timestamp decodes backend date strings leniently. The backend emits
// RFC3339-ish strings but fields may be absent, empty, or garbage; a value
// that fails to parse decodes to the zero Timestamp instead of failing the
// whole record.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// numeric epoch millis, seen from older backend exports
		if ms, err := strconv.ParseInt(string(b), 10, 64); err == nil && ms > 0 {
			t.Time = time.UnixMilli(ms)
		}
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Amount decodes a payment amount that the backend sends as a JSON number
// or, for some legacy rows, a numeric string. Anything else decodes to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = Amount(f)
		}
	}
	return nil
}

// OrderRecord is one completed purchase as served by the order backend.
// JSON tags mirror the backend's wire names, including the historical
// "prefferedDateAndTime" spelling.
type OrderRecord struct {
	InternalID         string    `json:"_id"`
	OrderID            string    `json:"orderId"`
	FullName           string    `json:"fullName"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phoneNumber"`
	Gender             string    `json:"gender"`
	DateOfBirth        Timestamp `json:"dob"`
	PlaceOfBirth       string    `json:"placeOfBirth"`
	PreferredDateTime  Timestamp `json:"prefferedDateAndTime"`
	AdditionalProducts []string  `json:"additionalProducts"`
	Amount             Amount    `json:"amount"`
	OrderDate          Timestamp `json:"orderDate"`
	CreatedAt          Timestamp `json:"createdAt"`
}

// EffectiveTime returns the record's timestamp for date filtering and
// sorting: orderDate when present, else createdAt. The second return is
// false when neither is usable.
func (o *OrderRecord) EffectiveTime() (time.Time, bool) {
	if !o.OrderDate.IsZero() {
		return o.OrderDate.Time, true
	}
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt.Time, true
	}
	return time.Time{}, false
}

// FilterSpec is the transient view state a user composes in the admin UI.
// The matching view is recomputed from (records, spec); nothing here is
// persisted.
type FilterSpec struct {
	DateMode   DateMode   `json:"date_mode" form:"date_mode"`
	CustomFrom *time.Time `json:"custom_from,omitempty" form:"from"`
	CustomTo   *time.Time `json:"custom_to,omitempty" form:"to"`
	SearchText string     `json:"search_text" form:"q"`
	Gender     string     `json:"gender" form:"gender"`
	MinAmount  *float64   `json:"min_amount,omitempty" form:"min_amount"`
	MaxAmount  *float64   `json:"max_amount,omitempty" form:"max_amount"`
	SortField  SortField  `json:"sort_by" form:"sort_by"`
	SortDir    SortDir    `json:"sort_dir" form:"sort_dir"`
}

// DefaultFilterSpec matches the viewer's initial state: everything, newest
// first.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		DateMode:  DateModeAll,
		Gender:    GenderAll,
		SortField: SortByOrderDate,
		SortDir:   SortDesc,
	}
}

// RecordSummary is the stats strip shown above the records table.
type RecordSummary struct {
	Count         int        `json:"count"`
	TotalAmount   float64    `json:"total_amount"`
	AverageAmount int64      `json:"average_amount"`
	MostRecent    *time.Time `json:"most_recent,omitempty"`
}

// RecordView is a filtered, sorted slice of the current batch plus its
// summary, ready for rendering.
type RecordView struct {
	Records   []OrderRecord `json:"records"`
	Summary   RecordSummary `json:"summary"`
	From      *time.Time    `json:"from,omitempty"`
	To        *time.Time    `json:"to,omitempty"`
	LatestIDs []string      `json:"latest_ids,omitempty"`
}
