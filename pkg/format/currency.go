// Package format renders monetary amounts for display.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/wealth-math/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// currencySymbols maps the supported ISO 4217 codes to their display prefix.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF ",
	"CNY": "¥",
	"SGD": "S$",
}

// wholeUnitCurrencies are displayed without minor units.
var wholeUnitCurrencies = map[string]bool{
	"JPY": true,
	"INR": true,
}

var printer = message.NewPrinter(language.English)

// Symbol returns the display prefix for a currency code. Unknown codes are
// used as their own prefix; an empty code means the default currency.
func Symbol(code string) string {
	code = normalize(code)
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

// Currency returns an amount with its currency symbol and thousands
// separators (e.g., "-$1,234.56", "¥1,235").
func Currency(amount float64, code string) string {
	sign, digits := split(amount, code)
	return sign + Symbol(code) + digits
}

// NumericCurrency returns an amount without a currency symbol but with
// separators (e.g., "-1,234.56").
func NumericCurrency(amount float64, code string) string {
	sign, digits := split(amount, code)
	return sign + digits
}

// Places returns the number of decimal places shown for a currency.
func Places(code string) int32 {
	if wholeUnitCurrencies[normalize(code)] {
		return 0
	}
	return constants.DecimalPrecision
}

func split(amount float64, code string) (string, string) {
	places := Places(code)
	rounded := decimal.NewFromFloat(amount).Round(places)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign, printer.Sprintf(fmt.Sprintf("%%.%df", places), rounded.InexactFloat64())
}

func normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return constants.DefaultCurrency
	}
	return code
}
