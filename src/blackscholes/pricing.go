// Package blackscholes prices European options and derives their sensitivities under the
// Black-Scholes-Merton model with a continuous dividend yield.
package blackscholes

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jiaming2012/option-analytics/src/models"
)

var normal = distuv.UnitNormal

// Params are the model inputs. Tau is the time to maturity in years.
type Params struct {
	S     float64
	K     float64
	Tau   float64
	R     float64
	Q     float64
	Sigma float64
	Type  models.OptionType
}

func (p Params) Validate() error {
	if !(p.Tau > 0) {
		return fmt.Errorf("Params.Validate: tau must be positive, found %v: %w", p.Tau, models.UndefinedGreekErr)
	}

	if !(p.Sigma > 0) {
		return fmt.Errorf("Params.Validate: sigma must be positive, found %v: %w", p.Sigma, models.UndefinedGreekErr)
	}

	if !(p.S > 0) || !(p.K > 0) {
		return fmt.Errorf("Params.Validate: spot and strike must be positive, found S=%v K=%v: %w", p.S, p.K, models.UndefinedGreekErr)
	}

	return p.Type.Validate()
}

// NewParams reads the model inputs from an implied-volatility tick.
func NewParams(tick models.Tick) (Params, error) {
	iv, ok := tick.Value.(models.ImpliedVolatility)
	if !ok {
		return Params{}, fmt.Errorf("NewParams: tick holds %q, not an implied volatility: %w", tick.Kind(), models.UndefinedGreekErr)
	}

	p := Params{
		S:     tick.AssetPrice,
		K:     tick.Strike,
		Tau:   tick.Tau(),
		R:     tick.RiskFreeRate,
		Q:     tick.DividendYield,
		Sigma: float64(iv),
		Type:  tick.OptionType,
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// WithSigma returns a copy of p with a different volatility.
func (p Params) WithSigma(sigma float64) Params {
	p.Sigma = sigma
	return p
}

// Terms holds the intermediate quantities shared by the price and every greek.
type Terms struct {
	Params
	D1           float64
	D2           float64
	SqrtTau      float64
	PhiD1        float64 // standard normal density at d1
	PhiD2        float64 // standard normal density at d2
	CdfD1        float64
	CdfD2        float64
	CdfMinusD1   float64
	CdfMinusD2   float64
	DivDiscount  float64 // e^(-q*tau)
	RateDiscount float64 // e^(-r*tau)
}

func D1(p Params) float64 {
	return (math.Log(p.S/p.K) + (p.R-p.Q+0.5*p.Sigma*p.Sigma)*p.Tau) / (p.Sigma * math.Sqrt(p.Tau))
}

func D2(p Params) float64 {
	return D1(p) - p.Sigma*math.Sqrt(p.Tau)
}

// Phi is the standard normal density.
func Phi(x float64) float64 {
	return normal.Prob(x)
}

// CDF is the standard normal cumulative distribution.
func CDF(x float64) float64 {
	return normal.CDF(x)
}

func NewTerms(p Params) (Terms, error) {
	if err := p.Validate(); err != nil {
		return Terms{}, err
	}

	sqrtTau := math.Sqrt(p.Tau)
	d1 := D1(p)
	d2 := d1 - p.Sigma*sqrtTau

	return Terms{
		Params:       p,
		D1:           d1,
		D2:           d2,
		SqrtTau:      sqrtTau,
		PhiD1:        Phi(d1),
		PhiD2:        Phi(d2),
		CdfD1:        CDF(d1),
		CdfD2:        CDF(d2),
		CdfMinusD1:   CDF(-d1),
		CdfMinusD2:   CDF(-d2),
		DivDiscount:  math.Exp(-p.Q * p.Tau),
		RateDiscount: math.Exp(-p.R * p.Tau),
	}, nil
}

func (t Terms) isCall() bool {
	return t.Type == models.Call
}

func (t Terms) Price() float64 {
	if t.isCall() {
		return t.S*t.DivDiscount*t.CdfD1 - t.K*t.RateDiscount*t.CdfD2
	}

	return t.K*t.RateDiscount*t.CdfMinusD2 - t.S*t.DivDiscount*t.CdfMinusD1
}

// Price is the closed-form Black-Scholes-Merton value.
func Price(p Params) (float64, error) {
	terms, err := NewTerms(p)
	if err != nil {
		return 0, fmt.Errorf("Price: %w", err)
	}

	return checkFinite("price", terms.Price())
}

// TheoreticalPrice converts an implied-volatility tick into a price tick. A tick that
// already holds a price is returned unchanged.
func TheoreticalPrice(tick models.Tick) (models.Tick, error) {
	if _, ok := tick.Value.(models.Price); ok {
		return tick, nil
	}

	p, err := NewParams(tick)
	if err != nil {
		return models.Tick{}, fmt.Errorf("TheoreticalPrice: %w", err)
	}

	price, err := Price(p)
	if err != nil {
		return models.Tick{}, fmt.Errorf("TheoreticalPrice: %w", err)
	}

	return tick.WithValue(models.Price(price)), nil
}

func checkFinite(name string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s evaluated to %v: %w", name, v, models.UndefinedGreekErr)
	}

	return v, nil
}
