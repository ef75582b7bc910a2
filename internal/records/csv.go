package records

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/astrasoul/records-api/internal/model"
)

// Display formats for exported dates. Fixed layouts keep exports identical
// across machines regardless of locale.
const (
	displayDateLayout     = "02 Jan 2006"
	displayDateTimeLayout = "02 Jan 2006 15:04"
)

// FormatDate renders a date-only value, empty for an absent one.
func FormatDate(t model.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateLayout)
}

// FormatDateTime renders a timestamp, empty for an absent one.
func FormatDateTime(t model.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateTimeLayout)
}

// Column maps one CSV column to its value in a record.
type Column struct {
	Header string
	Value  func(*model.OrderRecord) string
}

// ExportColumns is the default export layout, matching the records table.
func ExportColumns() []Column {
	return []Column{
		{"Order ID", func(o *model.OrderRecord) string { return o.OrderID }},
		{"Name", func(o *model.OrderRecord) string { return o.FullName }},
		{"Email", func(o *model.OrderRecord) string { return o.Email }},
		{"Phone", func(o *model.OrderRecord) string { return o.PhoneNumber }},
		{"Gender", func(o *model.OrderRecord) string { return o.Gender }},
		{"DOB", func(o *model.OrderRecord) string { return FormatDate(o.DateOfBirth) }},
		{"Place of Birth", func(o *model.OrderRecord) string { return o.PlaceOfBirth }},
		{"Preferred Date", func(o *model.OrderRecord) string { return FormatDateTime(o.PreferredDateTime) }},
		{"Additional Products", func(o *model.OrderRecord) string { return strings.Join(o.AdditionalProducts, " | ") }},
		{"Amount", func(o *model.OrderRecord) string { return formatAmount(o.Amount) }},
		{"Order Date", func(o *model.OrderRecord) string { return FormatDateTime(o.OrderDate) }},
		{"Internal ID", func(o *model.OrderRecord) string { return o.InternalID }},
	}
}

func formatAmount(a model.Amount) string {
	return strconv.FormatFloat(float64(a), 'f', -1, 64)
}

// ToCSV serializes records into CSV text: header row first, RFC 4180
// quoting for values containing commas, quotes or newlines. An empty record
// set yields a header-only document.
func ToCSV(recs []model.OrderRecord, columns []Column) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Header
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for i := range recs {
		for j, col := range columns {
			row[j] = col.Value(&recs[i])
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// ExportFilename builds the download name, stamped with the active date
// mode and the export day so repeated exports don't silently collide across
// days.
func ExportFilename(mode model.DateMode, now time.Time) string {
	if mode == "" {
		mode = model.DateModeAll
	}
	return fmt.Sprintf("orders_%s_%s.csv", mode, now.Format("2006-01-02"))
}
