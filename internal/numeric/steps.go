package numeric

import "github.com/shopspring/decimal"

// Step rounding for order quantities. Exchanges reject orders whose quantity
// is not an exact multiple of the contract's step size, and they also reject
// quantities with drifted precision, so everything here is exact decimal
// arithmetic (integer quotient + remainder), never float division.

// FloorToStep returns the largest multiple of step that is <= qty.
// A zero step means the contract carries no step constraint and qty is
// returned unchanged.
func FloorToStep(qty, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return qty
	}
	mul, _ := qty.QuoRem(step, 0)
	return mul.Mul(step)
}

// CeilToStep returns the smallest multiple of step that is >= qty.
// A zero step returns qty unchanged.
func CeilToStep(qty, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		return qty
	}
	mul, rem := qty.QuoRem(step, 0)
	if !rem.IsZero() {
		mul = mul.Add(decimal.NewFromInt(1))
	}
	return mul.Mul(step)
}
