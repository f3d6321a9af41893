package credit

import (
	"github.com/shopspring/decimal"

	"github.com/sixxset5-star/crm-desktop-sub000/internal/domain"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/optional"
	"github.com/sixxset5-star/crm-desktop-sub000/pkg/utils"
)

// lnPrecision is the number of decimal places kept by the logarithms of the term solver
const lnPrecision = 18

var maxTerm = decimal.NewFromInt(domain.MaxTermMonths)

// CalculateAnnuityPayment returns the fixed monthly payment of an annuity loan,
// rounded to cents.
// Formula: amount * r * (1+r)^n / ((1+r)^n - 1), or amount / n when r is zero
func CalculateAnnuityPayment(amount, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, bool) {
	if !amount.IsPositive() || annualRate.IsNegative() || !validTerm(termMonths) {
		return decimal.Zero, false
	}

	r := utils.MonthlyRate(annualRate)
	if r.IsZero() {
		return utils.Round2(amount.Div(decimal.NewFromInt(int64(termMonths)))), true
	}

	factor, err := one.Add(r).PowInt32(int32(termMonths))
	if err != nil {
		return decimal.Zero, false
	}

	return utils.Round2(amount.Mul(r).Mul(factor).Div(factor.Sub(one))), true
}

// CalculateTermFromPayment returns how many months a payment needs to repay the
// amount. A partial final month counts as a whole one. ok is false when the
// payment never covers the monthly interest or needs more than
// domain.MaxTermMonths.
// Formula: -ln(1 - amount*r/payment) / ln(1+r), or amount / payment when r is zero
func CalculateTermFromPayment(amount, annualRate, monthlyPayment decimal.Decimal) (int, bool) {
	if !amount.IsPositive() || annualRate.IsNegative() || !monthlyPayment.IsPositive() {
		return 0, false
	}

	r := utils.MonthlyRate(annualRate)

	var months decimal.Decimal
	if r.IsZero() {
		months = amount.Div(monthlyPayment).Ceil()
	} else {
		ratio := amount.Mul(r).Div(monthlyPayment)
		if ratio.GreaterThanOrEqual(one) {
			return 0, false
		}

		num, err := one.Sub(ratio).Ln(lnPrecision)
		if err != nil {
			return 0, false
		}
		den, err := one.Add(r).Ln(lnPrecision)
		if err != nil || den.IsZero() {
			return 0, false
		}
		months = num.Neg().Div(den).Ceil()
	}

	// checked before IntPart, which wraps past int64; one spare month is left
	// for the rounding step below
	if months.GreaterThan(maxTerm.Add(one)) {
		return 0, false
	}

	term := months.IntPart()
	if term < 1 {
		term = 1
	}

	// A payment that was itself rounded to cents can fall a fraction of a cent
	// short of the exact annuity, which pushes the raw term past a whole month.
	// The shortest term whose cent-rounded payment fits wins.
	for term > 1 {
		shorter, ok := CalculateAnnuityPayment(amount, annualRate, int(term-1))
		if !ok || shorter.GreaterThan(monthlyPayment) {
			break
		}
		term--
	}
	if term > domain.MaxTermMonths {
		return 0, false
	}

	return int(term), true
}

// CalculateAmountFromPayment returns the principal a payment repays over the
// term, rounded to cents.
// Formula: payment * (1 - (1+r)^-n) / r, or payment * n when r is zero
func CalculateAmountFromPayment(annualRate decimal.Decimal, termMonths int, monthlyPayment decimal.Decimal) (decimal.Decimal, bool) {
	if annualRate.IsNegative() || !validTerm(termMonths) || !monthlyPayment.IsPositive() {
		return decimal.Zero, false
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := utils.MonthlyRate(annualRate)
	if r.IsZero() {
		return utils.Round2(monthlyPayment.Mul(n)), true
	}

	factor, err := one.Add(r).PowInt32(int32(termMonths))
	if err != nil {
		return decimal.Zero, false
	}

	// (1 - f^-n) / r == (f^n - 1) / (f^n * r)
	return utils.Round2(monthlyPayment.Mul(factor.Sub(one)).Div(factor.Mul(r))), true
}

// SmartInput is a loan's parameter set as entered through one of the three
// smart-input modes
type SmartInput struct {
	Params         domain.LoanParams
	MonthlyPayment optional.Value[decimal.Decimal]
	Mode           domain.InputMode
}

// ResolveSmartInput fills the field derived by the input mode from the other
// three using the annuity formulas. Unset mode means payment. ok is false, and
// the input is returned untouched, when the source fields are missing or the
// combination is infeasible.
func ResolveSmartInput(in SmartInput) (SmartInput, bool) {
	out := in
	p := in.Params

	switch in.Mode {
	case domain.InputModeTerm:
		amount, okA := p.Amount.Get()
		rate, okR := p.AnnualRate.Get()
		payment, okP := in.MonthlyPayment.Get()
		if !okA || !okR || !okP {
			return in, false
		}
		term, ok := CalculateTermFromPayment(amount, rate, payment)
		if !ok {
			return in, false
		}
		out.Params.TermMonths = optional.Of(term)

	case domain.InputModeAmount:
		rate, okR := p.AnnualRate.Get()
		term, okT := p.TermMonths.Get()
		payment, okP := in.MonthlyPayment.Get()
		if !okR || !okT || !okP {
			return in, false
		}
		amount, ok := CalculateAmountFromPayment(rate, term, payment)
		if !ok {
			return in, false
		}
		out.Params.Amount = optional.Of(amount)

	default:
		amount, okA := p.Amount.Get()
		rate, okR := p.AnnualRate.Get()
		term, okT := p.TermMonths.Get()
		if !okA || !okR || !okT {
			return in, false
		}
		payment, ok := CalculateAnnuityPayment(amount, rate, term)
		if !ok {
			return in, false
		}
		out.MonthlyPayment = optional.Of(payment)
	}

	return out, true
}
