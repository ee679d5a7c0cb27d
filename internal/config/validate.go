package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/wealth-math/internal/portfolio"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator with the custom tags and the
// per-type instrument rules registered.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("instrument_type", validateInstrumentType)
		_ = validate.RegisterValidation("isodate", validateISODate)
		validate.RegisterStructValidation(validateInstrumentFields, InstrumentConfig{})
	})
	return validate
}

func validateInstrumentType(fl validator.FieldLevel) bool {
	kind := portfolio.Kind(fl.Field().String())
	for _, k := range portfolio.Kinds() {
		if kind == k {
			return true
		}
	}
	return false
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// validateInstrumentFields enforces the fields each instrument type needs.
func validateInstrumentFields(sl validator.StructLevel) {
	inst := sl.Current().Interface().(InstrumentConfig)

	switch portfolio.Kind(inst.Type) {
	case portfolio.KindPortfolio, portfolio.KindGold:
		if inst.Amount <= 0 {
			sl.ReportError(inst.Amount, "Amount", "amount", "required", "")
		}
		if inst.CAGR != nil && *inst.CAGR < 0 {
			sl.ReportError(inst.CAGR, "CAGR", "cagr", "gte", "0")
		}
	case portfolio.KindRealEstate:
		if inst.Date == "" {
			sl.ReportError(inst.Date, "Date", "date", "required", "")
		}
		if inst.HouseCost <= 0 {
			sl.ReportError(inst.HouseCost, "HouseCost", "houseCost", "required", "")
		}
		if inst.LoanTerm <= 0 && inst.Downpayment < inst.HouseCost {
			sl.ReportError(inst.LoanTerm, "LoanTerm", "loanTerm", "required", "")
		}
		if inst.Downpayment > inst.HouseCost {
			sl.ReportError(inst.Downpayment, "Downpayment", "downpayment", "ltefield", "HouseCost")
		}
	case portfolio.KindLoan, portfolio.KindCarLoan:
		if inst.Date == "" {
			sl.ReportError(inst.Date, "Date", "date", "required", "")
		}
		if inst.LoanAmount <= 0 {
			sl.ReportError(inst.LoanAmount, "LoanAmount", "loanAmount", "required", "")
		}
		if inst.LoanTermYears <= 0 {
			sl.ReportError(inst.LoanTermYears, "LoanTermYears", "loanTermYears", "required", "")
		}
	}
}

// Validate checks the configuration for errors that prevent a projection.
// Conditions that merely look suspicious are reported by ValidateConfiguration
// instead.
func (c *Configuration) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Configuration.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "iso4217":
		return fmt.Sprintf("%s %q is not an ISO 4217 currency code", field, fe.Value())
	case "isodate":
		return fmt.Sprintf("%s %q is not a %s date", field, fe.Value(), DateLayout)
	case "instrument_type":
		return fmt.Sprintf("%s %q is not one of %s", field, fe.Value(), kindList())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func kindList() string {
	kinds := portfolio.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
