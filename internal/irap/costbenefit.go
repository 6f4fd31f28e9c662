package irap

import (
	"errors"
	"fmt"
	"math"
)

// Params are the inputs of a cost-benefit evaluation.
type Params struct {
	Investment    float64
	AnnualSavings float64
	Years         int
	DiscountRate  float64
}

// DefaultParams returns the regional programme estimate: 12.8M riyals
// invested for 3.2M a year, over ten years at 5%.
func DefaultParams() Params {
	return Params{
		Investment:    12_800_000,
		AnnualSavings: 3_200_000,
		Years:         10,
		DiscountRate:  0.05,
	}
}

// Validate reports every parameter Evaluate cannot use.
func (p Params) Validate() error {
	var errs []error
	if p.Investment <= 0 {
		errs = append(errs, fmt.Errorf("investment must be positive, got %v", p.Investment))
	}
	if p.AnnualSavings <= 0 {
		errs = append(errs, fmt.Errorf("annual savings must be positive, got %v", p.AnnualSavings))
	}
	if p.Years < 1 {
		errs = append(errs, fmt.Errorf("years must be at least 1, got %d", p.Years))
	}
	if p.DiscountRate <= -1 {
		errs = append(errs, fmt.Errorf("discount rate must exceed -1, got %v", p.DiscountRate))
	}
	return errors.Join(errs...)
}

// CostBenefit summarizes the return on an investment.
type CostBenefit struct {
	TotalInvestment  float64 `json:"totalInvestment"`
	AnnualSavings    float64 `json:"annualSavings"`
	PaybackPeriod    float64 `json:"paybackPeriod"`
	ROI              float64 `json:"roi"`
	NetPresentValue  float64 `json:"netPresentValue"`
	BenefitCostRatio float64 `json:"benefitCostRatio"`
}

// Evaluate computes payback years (one decimal), yearly ROI in whole
// percent, NPV in whole riyals and the benefit/cost ratio over the horizon
// (two decimals).
func Evaluate(p Params) (CostBenefit, error) {
	if err := p.Validate(); err != nil {
		return CostBenefit{}, err
	}
	return CostBenefit{
		TotalInvestment:  p.Investment,
		AnnualSavings:    p.AnnualSavings,
		PaybackPeriod:    roundTo(p.Investment/p.AnnualSavings, 1),
		ROI:              round(p.AnnualSavings / p.Investment * 100),
		NetPresentValue:  NPV(p.Investment, p.AnnualSavings, p.Years, p.DiscountRate),
		BenefitCostRatio: roundTo(p.AnnualSavings*float64(p.Years)/p.Investment, 2),
	}, nil
}

// NPV discounts equal yearly savings over years and subtracts the upfront
// investment. The result is rounded to whole riyals.
func NPV(investment, annualSavings float64, years int, discountRate float64) float64 {
	npv := -investment
	for year := 1; year <= years; year++ {
		npv += annualSavings / math.Pow(1+discountRate, float64(year))
	}
	return round(npv)
}
