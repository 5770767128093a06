package cost

import "github.com/sells-group/script-analytics/internal/model"

// Rates holds per-script generation pricing, in USD.
type Rates struct {
	BasicScript   float64 `yaml:"basic_script" mapstructure:"basic_script"`
	PremiumScript float64 `yaml:"premium_script" mapstructure:"premium_script"`
}

// Calculator computes generation costs for scripts.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// GenerationCost returns the flat cost of generating one script of the
// given variant. Unknown variants cost nothing.
func (c *Calculator) GenerationCost(v model.Variant) float64 {
	if !v.Valid() {
		return 0
	}
	if v.IsPremium() {
		return c.rates.PremiumScript
	}
	return c.rates.BasicScript
}

// Total sums the generation cost of every variant in vs.
func (c *Calculator) Total(vs ...model.Variant) float64 {
	var total float64
	for _, v := range vs {
		total += c.GenerationCost(v)
	}
	return total
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		BasicScript:   0.03,
		PremiumScript: 0.08,
	}
}
