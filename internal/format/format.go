// Package format renders amounts and timestamps for listings.
package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Currency renders amount in rupees with Indian digit grouping and two
// decimals, e.g. ₹1,234.50.
func Currency(amount float64) string {
	return "₹" + printer.Sprint(number.Decimal(amount, number.Scale(2)))
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parse(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders an ISO-8601 date or timestamp as dd/mm/yyyy. Input that
// does not parse is returned unchanged.
func Date(iso string) string {
	t, ok := parse(iso)
	if !ok {
		return iso
	}
	return t.Format("02/01/2006")
}

// DateTime renders an ISO-8601 timestamp as dd/mm/yyyy hh:mm in the
// timestamp's own offset. Input that does not parse is returned unchanged.
func DateTime(iso string) string {
	t, ok := parse(iso)
	if !ok {
		return iso
	}
	return t.Format("02/01/2006 15:04")
}
