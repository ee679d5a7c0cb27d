// Package output provides utilities for formatting and displaying projection
// results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/wealth-math/internal/forecast"
	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/iwvelando/wealth-math/pkg/format"
	"github.com/iwvelando/wealth-math/pkg/mathutil"
)

// Write renders the forecast in the given output format.
func Write(w io.Writer, outputFormat string, fc forecast.Forecast) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, fc)
	case constants.OutputFormatCSV:
		return CsvFormat(w, fc)
	case constants.OutputFormatJSON:
		return JSONFormat(w, fc)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, fc forecast.Forecast) error {
	pw := &errWriter{w: w}

	pw.printf("--- Projection as of %s ---\n", fc.AsOf.Format(constants.DateLayout))
	if fc.Age != nil {
		pw.printf("Age:                      %d\n", *fc.Age)
	}
	if fc.RetirementAge > 0 {
		pw.printf("Retirement age:           %d\n", fc.RetirementAge)
	}
	if fc.YearsToRetirement == nil {
		pw.printf("Years to retirement:      unknown\n")
	} else {
		pw.printf("Years to retirement:      %.1f\n", *fc.YearsToRetirement)
	}
	pw.printf("Inflation rate:           %.2f%%\n", fc.InflationRate)
	pw.printf("\n")

	pw.printf("Projected assets:         %s\n", amountOrDash(fc.Result.ProjectedAssets, fc.Currency))
	pw.printf("Inflation-adjusted value: %s\n", amountOrDash(fc.Result.InflationAdjustedAssets, fc.Currency))
	pw.printf("Projected liabilities:    %s\n", amountOrDash(fc.Result.ProjectedLiabilities, fc.Currency))

	if len(fc.Result.Contributions) > 0 {
		pw.printf("\n")
		pw.printf("Instrument | Type | Asset | Liability | Depreciated Value | Current Liability | Current Equity\n")
		pw.printf("__________ | ____ | _____ | _________ | _________________ | _________________ | ______________\n")
		for _, c := range fc.Result.Contributions {
			pw.printf("%s | %s | %s | %s | %s | %s | %s\n", c.Name, c.Kind,
				format.Currency(c.Asset, fc.Currency),
				format.Currency(c.Liability, fc.Currency),
				amountOrDash(c.DepreciatedValue, fc.Currency),
				format.Currency(c.CurrentLiability, fc.Currency),
				amountOrDash(c.CurrentEquity, fc.Currency))
		}
	}

	if len(fc.Warnings) > 0 {
		pw.printf("\nWarnings:\n")
		for _, warning := range fc.Warnings {
			pw.printf("  - %s\n", warning)
		}
	}
	return pw.err
}

// CsvFormat outputs one row per instrument followed by the totals.
func CsvFormat(w io.Writer, fc forecast.Forecast) error {
	cw := csv.NewWriter(w)
	places := int(format.Places(fc.Currency))
	amount := func(v float64) string {
		return strconv.FormatFloat(mathutil.RoundTo(v, int32(places)), 'f', places, 64)
	}
	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return amount(*v)
	}

	records := [][]string{{"id", "name", "type", "asset", "liability", "depreciated value", "current liability", "current equity"}}
	for _, c := range fc.Result.Contributions {
		records = append(records, []string{c.ID, c.Name, string(c.Kind), amount(c.Asset), amount(c.Liability),
			optional(c.DepreciatedValue), amount(c.CurrentLiability), optional(c.CurrentEquity)})
	}
	records = append(records,
		[]string{"", "projected assets", "total", optional(fc.Result.ProjectedAssets), "", "", "", ""},
		[]string{"", "inflation-adjusted assets", "total", optional(fc.Result.InflationAdjustedAssets), "", "", "", ""},
		[]string{"", "projected liabilities", "total", "", optional(fc.Result.ProjectedLiabilities), "", "", ""},
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// JSONFormat outputs the forecast as indented JSON.
func JSONFormat(w io.Writer, fc forecast.Forecast) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fc); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func amountOrDash(v *float64, currency string) string {
	if v == nil {
		return "-"
	}
	return format.Currency(*v, currency)
}

// errWriter keeps the first write error so the table code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(layout string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, layout, args...)
}

// CsvString returns the CSV rendering of a forecast.
func CsvString(fc forecast.Forecast) string {
	var b strings.Builder
	_ = CsvFormat(&b, fc)
	return b.String()
}
