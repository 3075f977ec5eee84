// Package currency converts base-currency amounts for display. Conversion uses
// a static configured rate; amounts are always stored in the base currency.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	Base = money.USD

	DefaultDisplay = money.INR
)

// DefaultRate is the INR value of one USD.
var DefaultRate = decimal.NewFromInt(83)

var (
	ErrInvalidRate         = errors.New("conversion rate must be greater than zero")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

type Converter struct {
	Display string
	Rate    decimal.Decimal
}

// NewConverter validates the display code and rate. Displaying the base
// currency forces a rate of one.
func NewConverter(display string, rate decimal.Decimal) (Converter, error) {
	display = strings.ToUpper(strings.TrimSpace(display))
	if money.GetCurrency(display) == nil {
		return Converter{}, fmt.Errorf("unknown currency %q", display)
	}

	if display == Base {
		return Converter{Display: Base, Rate: decimal.NewFromInt(1)}, nil
	}

	if !rate.IsPositive() {
		return Converter{}, ErrInvalidRate
	}

	return Converter{Display: display, Rate: rate}, nil
}

// Identity displays amounts in the base currency.
func Identity() Converter {
	return Converter{Display: Base, Rate: decimal.NewFromInt(1)}
}

func (c Converter) ToDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.Rate)
}

// FromDisplay converts an amount entered in the display currency to the base
// currency, rounded to cents.
func (c Converter) FromDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.Div(c.Rate).Round(2)
}

// Convert converts an amount entered in code, which must be the base or the
// display currency.
func (c Converter) Convert(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	switch strings.ToUpper(code) {
	case "", Base:
		return amount, nil
	case c.Display:
		return c.FromDisplay(amount), nil
	default:
		return decimal.Zero, fmt.Errorf("%w %q", ErrUnsupportedCurrency, code)
	}
}

// Format renders a base amount in the display currency.
func (c Converter) Format(amount decimal.Decimal) string {
	return Format(c.ToDisplay(amount), c.Display)
}

// FormatFloat is Format for the float64 amounts produced by analytics.
func (c Converter) FormatFloat(amount float64) string {
	return c.Format(decimal.NewFromFloat(amount))
}

// Format renders amount in code with its symbol and separators.
func Format(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}

	frac := int32(cur.Fraction)

	return money.New(amount.Round(frac).Shift(frac).IntPart(), cur.Code).Display()
}
