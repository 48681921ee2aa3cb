// Package output renders simulation runs as console tables, CSV and JSON.
package output

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/okarvonen/vaesto/internal/domain"
)

// Formatter renders a single run in one output format.
type Formatter interface {
	Name() string
	Format(run *domain.RunResult) ([]byte, error)
}

// ForFormat returns the formatter registered under the given name.
func ForFormat(name string) (Formatter, error) {
	switch name {
	case "console", "table":
		return ConsoleFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	case "json":
		return JSONFormatter{Pretty: true}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", name)
	}
}

var hundred = decimal.NewFromInt(100)

// FormatBillions renders a EUR-billions decimal as e.g. "273.4 B".
func FormatBillions(d decimal.Decimal) string {
	return d.StringFixed(1) + " B"
}

// FormatMillions renders a EUR-millions decimal as e.g. "1 234 M" with a
// thin-space style thousands separator.
func FormatMillions(d decimal.Decimal) string {
	return groupDigits(d.Round(0).String()) + " M"
}

// FormatPercent renders a percentage decimal with one decimal place.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatCount renders a head count with thousands grouping. Negative counts
// occur for net flows such as migration.
func FormatCount(v float64) string {
	return groupDigits(strconv.FormatInt(int64(math.Round(v)), 10))
}

func groupDigits(s string) string {
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
