// Package format renders money, dates and enum labels for the pages.
package format

import (
	"fmt"
	"time"

	"github.com/justsurfingit/talent-portal/internal/models"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)

type Formatter struct {
	printer  *message.Printer
	unit     currency.Unit
	location *time.Location
}

// New builds a formatter for a BCP 47 locale and an ISO 4217 currency code.
func New(locale, currencyCode string, loc *time.Location) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("format: locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("format: currency %q: %w", currencyCode, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit, location: loc}, nil
}

// Currency formats v with the currency symbol, e.g. "R$ 8.500,00".
func (f *Formatter) Currency(v float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(v)))
}

func (f *Formatter) Date(t time.Time) string {
	return t.In(f.location).Format(DateLayout)
}

func (f *Formatter) DateTime(t time.Time) string {
	return t.In(f.location).Format(DateTimeLayout)
}

// Funcs exposes the formatter to html/template.
func (f *Formatter) Funcs() map[string]any {
	return map[string]any{
		"currency":       f.Currency,
		"date":           f.Date,
		"datetime":       f.DateTime,
		"jobTypeLabel":   JobTypeLabel,
		"jobStatusLabel": JobStatusLabel,
		"appStatusLabel": ApplicationStatusLabel,
		"appStatusColor": ApplicationStatusColor,
		"jobStatusColor": JobStatusColor,
		"plural":         Plural,
	}
}

var jobTypeLabels = map[models.JobType]string{
	models.JobTypeRemote: "Remote",
	models.JobTypeOnsite: "On-site",
	models.JobTypeHybrid: "Hybrid",
}

var jobStatusLabels = map[models.JobStatus]string{
	models.JobStatusOpen:     "Open",
	models.JobStatusClosed:   "Closed",
	models.JobStatusArchived: "Archived",
}

var applicationStatusLabels = map[models.ApplicationStatus]string{
	models.ApplicationPending:   "Pending",
	models.ApplicationReviewing: "Under review",
	models.ApplicationApproved:  "Approved",
	models.ApplicationRejected:  "Rejected",
}

var applicationStatusColors = map[models.ApplicationStatus]string{
	models.ApplicationPending:   "bg-yellow-100 text-yellow-800",
	models.ApplicationReviewing: "bg-blue-100 text-blue-800",
	models.ApplicationApproved:  "bg-green-100 text-green-800",
	models.ApplicationRejected:  "bg-red-100 text-red-800",
}

// Unknown values fall through as their raw string.
func JobTypeLabel(t models.JobType) string {
	if l, ok := jobTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func JobStatusLabel(s models.JobStatus) string {
	if l, ok := jobStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func ApplicationStatusLabel(s models.ApplicationStatus) string {
	if l, ok := applicationStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func ApplicationStatusColor(s models.ApplicationStatus) string {
	if c, ok := applicationStatusColors[s]; ok {
		return c
	}
	return "bg-gray-100 text-gray-800"
}

func JobStatusColor(s models.JobStatus) string {
	switch s {
	case models.JobStatusOpen:
		return "bg-green-100 text-green-700"
	case models.JobStatusClosed:
		return "bg-red-100 text-red-700"
	}
	return "bg-gray-100 text-gray-700"
}

// Plural returns "<n> <word>", adding an "s" unless n is one. n is any
// integer so templates can pass both len results and API totals.
func Plural(n any, word string) string {
	var count int64
	switch v := n.(type) {
	case int:
		count = int64(v)
	case int64:
		count = v
	case int32:
		count = int64(v)
	}
	if count == 1 {
		return fmt.Sprintf("%d %s", count, word)
	}
	return fmt.Sprintf("%d %ss", count, word)
}
