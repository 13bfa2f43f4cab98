/*
Package generic provides the domain-agnostic primitives of the rota engine.

PURPOSE:
  Quantities, calendar points, periods and errors shared by every package.
  Nothing in here knows what a doctor, a shift or a leave record is; the
  roster package builds the clinic domain on top of these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (8 hours, 3 half-days)
  - Unit:   Hours for hourly roles, half-days for unit roles

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so that per-day sums never drift;
     rounding happens once, on the final figure (Round1)
  2. Explicit units: adding hours to half-days is a caller bug, not a
     conversion

USAGE:
  worked := generic.NewAmount(3.5, generic.UnitHours)
  total := worked.Add(generic.NewAmount(4, generic.UnitHours))
  total.Round1().Float() // 7.5

SEE ALSO:
  - time.go: TimePoint, ClockTime and the A/B week-type resolver
  - period.go: Period iteration and week/month/year scopes
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours    Unit = "hours"
	UnitHalfDays Unit = "half_days"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func ZeroAmount(unit Unit) Amount {
	return Amount{Value: decimal.Zero, Unit: unit}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}
func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Round1 rounds to one decimal place, half away from zero (1.25 -> 1.3,
// -1.25 -> -1.3). Only apply it to final figures.
func (a Amount) Round1() Amount {
	return Amount{Value: a.Value.Round(1), Unit: a.Unit}
}

// Float returns the value as a float64 for display and JSON.
func (a Amount) Float() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}
