package blackscholes

import (
	"fmt"

	"github.com/jiaming2012/option-analytics/src/models"
)

// Sign conventions: theta = -dV/dtau, charm = -dDelta/dtau, veta = dVega/dtau, color = dGamma/dtau.

func (t Terms) Delta() float64 {
	if t.isCall() {
		return t.DivDiscount * t.CdfD1
	}

	return -t.DivDiscount * t.CdfMinusD1
}

func (t Terms) Gamma() float64 {
	return t.DivDiscount * t.PhiD1 / (t.S * t.Sigma * t.SqrtTau)
}

func (t Terms) Vega() float64 {
	return t.S * t.DivDiscount * t.PhiD1 * t.SqrtTau
}

func (t Terms) Theta() float64 {
	decay := -t.S * t.DivDiscount * t.PhiD1 * t.Sigma / (2 * t.SqrtTau)
	if t.isCall() {
		return decay - t.R*t.K*t.RateDiscount*t.CdfD2 + t.Q*t.S*t.DivDiscount*t.CdfD1
	}

	return decay + t.R*t.K*t.RateDiscount*t.CdfMinusD2 - t.Q*t.S*t.DivDiscount*t.CdfMinusD1
}

func (t Terms) Rho() float64 {
	if t.isCall() {
		return t.K * t.Tau * t.RateDiscount * t.CdfD2
	}

	return -t.K * t.Tau * t.RateDiscount * t.CdfMinusD2
}

// Epsilon is the sensitivity to the dividend yield.
func (t Terms) Epsilon() float64 {
	if t.isCall() {
		return -t.S * t.Tau * t.DivDiscount * t.CdfD1
	}

	return t.S * t.Tau * t.DivDiscount * t.CdfMinusD1
}

func (t Terms) Vanna() float64 {
	return -t.DivDiscount * t.PhiD1 * t.D2 / t.Sigma
}

func (t Terms) Charm() float64 {
	drift := t.DivDiscount * t.PhiD1 * (2*(t.R-t.Q)*t.Tau - t.D2*t.Sigma*t.SqrtTau) / (2 * t.Tau * t.Sigma * t.SqrtTau)
	if t.isCall() {
		return t.Q*t.DivDiscount*t.CdfD1 - drift
	}

	return -t.Q*t.DivDiscount*t.CdfMinusD1 - drift
}

func (t Terms) Vomma() float64 {
	return t.Vega() * t.D1 * t.D2 / t.Sigma
}

func (t Terms) Veta() float64 {
	return -t.S * t.DivDiscount * t.PhiD1 * t.SqrtTau *
		(t.Q + (t.R-t.Q)*t.D1/(t.Sigma*t.SqrtTau) - (1+t.D1*t.D2)/(2*t.Tau))
}

func (t Terms) Speed() float64 {
	return -t.Gamma() / t.S * (t.D1/(t.Sigma*t.SqrtTau) + 1)
}

func (t Terms) Zomma() float64 {
	return t.Gamma() * (t.D1*t.D2 - 1) / t.Sigma
}

func (t Terms) Color() float64 {
	return -t.DivDiscount * t.PhiD1 / (2 * t.S * t.Tau * t.Sigma * t.SqrtTau) *
		(2*t.Q*t.Tau + 1 + (2*(t.R-t.Q)*t.Tau-t.D2*t.Sigma*t.SqrtTau)/(t.Sigma*t.SqrtTau)*t.D1)
}

func (t Terms) Ultima() float64 {
	d1d2 := t.D1 * t.D2
	return -t.Vega() / (t.Sigma * t.Sigma) * (d1d2*(1-d1d2) + t.D1*t.D1 + t.D2*t.D2)
}

// DualDelta is the sensitivity to the strike.
func (t Terms) DualDelta() float64 {
	if t.isCall() {
		return -t.RateDiscount * t.CdfD2
	}

	return t.RateDiscount * t.CdfMinusD2
}

func (t Terms) DualGamma() float64 {
	return t.RateDiscount * t.PhiD2 / (t.K * t.Sigma * t.SqrtTau)
}

type GreekName string

const (
	DeltaGreek     GreekName = "delta"
	GammaGreek     GreekName = "gamma"
	ThetaGreek     GreekName = "theta"
	RhoGreek       GreekName = "rho"
	VegaGreek      GreekName = "vega"
	EpsilonGreek   GreekName = "epsilon"
	VannaGreek     GreekName = "vanna"
	CharmGreek     GreekName = "charm"
	VommaGreek     GreekName = "vomma"
	VetaGreek      GreekName = "veta"
	SpeedGreek     GreekName = "speed"
	ZommaGreek     GreekName = "zomma"
	ColorGreek     GreekName = "color"
	UltimaGreek    GreekName = "ultima"
	DualDeltaGreek GreekName = "dual_delta"
	DualGammaGreek GreekName = "dual_gamma"
)

var AllGreekNames = []GreekName{
	DeltaGreek, GammaGreek, ThetaGreek, RhoGreek, VegaGreek, EpsilonGreek, VannaGreek, CharmGreek,
	VommaGreek, VetaGreek, SpeedGreek, ZommaGreek, ColorGreek, UltimaGreek, DualDeltaGreek, DualGammaGreek,
}

var greekFuncs = map[GreekName]func(Terms) float64{
	DeltaGreek:     Terms.Delta,
	GammaGreek:     Terms.Gamma,
	ThetaGreek:     Terms.Theta,
	RhoGreek:       Terms.Rho,
	VegaGreek:      Terms.Vega,
	EpsilonGreek:   Terms.Epsilon,
	VannaGreek:     Terms.Vanna,
	CharmGreek:     Terms.Charm,
	VommaGreek:     Terms.Vomma,
	VetaGreek:      Terms.Veta,
	SpeedGreek:     Terms.Speed,
	ZommaGreek:     Terms.Zomma,
	ColorGreek:     Terms.Color,
	UltimaGreek:    Terms.Ultima,
	DualDeltaGreek: Terms.DualDelta,
	DualGammaGreek: Terms.DualGamma,
}

func (g GreekName) Validate() error {
	if _, ok := greekFuncs[g]; !ok {
		return fmt.Errorf("GreekName: Validate: unknown greek: %s", g)
	}

	return nil
}

// Greeks is the full set of sensitivities of one tick.
type Greeks struct {
	Delta     float64 `json:"delta"`
	Gamma     float64 `json:"gamma"`
	Theta     float64 `json:"theta"`
	Rho       float64 `json:"rho"`
	Vega      float64 `json:"vega"`
	Epsilon   float64 `json:"epsilon"`
	Vanna     float64 `json:"vanna"`
	Charm     float64 `json:"charm"`
	Vomma     float64 `json:"vomma"`
	Veta      float64 `json:"veta"`
	Speed     float64 `json:"speed"`
	Zomma     float64 `json:"zomma"`
	Color     float64 `json:"color"`
	Ultima    float64 `json:"ultima"`
	DualDelta float64 `json:"dual_delta"`
	DualGamma float64 `json:"dual_gamma"`
}

// Greek evaluates a single named greek for an implied-volatility tick.
func Greek(tick models.Tick, name GreekName) (float64, error) {
	fn, ok := greekFuncs[name]
	if !ok {
		return 0, fmt.Errorf("Greek: unknown greek %q: %w", name, models.UndefinedGreekErr)
	}

	terms, err := termsOf(tick)
	if err != nil {
		return 0, fmt.Errorf("Greek(%s): %w", name, err)
	}

	return checkFinite(string(name), fn(terms))
}

// AllGreeks evaluates every greek from a single set of shared terms.
func AllGreeks(tick models.Tick) (Greeks, error) {
	terms, err := termsOf(tick)
	if err != nil {
		return Greeks{}, fmt.Errorf("AllGreeks: %w", err)
	}

	values := make(map[GreekName]float64, len(greekFuncs))
	for name, fn := range greekFuncs {
		v, err := checkFinite(string(name), fn(terms))
		if err != nil {
			return Greeks{}, fmt.Errorf("AllGreeks: %w", err)
		}
		values[name] = v
	}

	return Greeks{
		Delta:     values[DeltaGreek],
		Gamma:     values[GammaGreek],
		Theta:     values[ThetaGreek],
		Rho:       values[RhoGreek],
		Vega:      values[VegaGreek],
		Epsilon:   values[EpsilonGreek],
		Vanna:     values[VannaGreek],
		Charm:     values[CharmGreek],
		Vomma:     values[VommaGreek],
		Veta:      values[VetaGreek],
		Speed:     values[SpeedGreek],
		Zomma:     values[ZommaGreek],
		Color:     values[ColorGreek],
		Ultima:    values[UltimaGreek],
		DualDelta: values[DualDeltaGreek],
		DualGamma: values[DualGammaGreek],
	}, nil
}

func termsOf(tick models.Tick) (Terms, error) {
	p, err := NewParams(tick)
	if err != nil {
		return Terms{}, err
	}

	return NewTerms(p)
}

func Delta(tick models.Tick) (float64, error)     { return Greek(tick, DeltaGreek) }
func Gamma(tick models.Tick) (float64, error)     { return Greek(tick, GammaGreek) }
func Theta(tick models.Tick) (float64, error)     { return Greek(tick, ThetaGreek) }
func Rho(tick models.Tick) (float64, error)       { return Greek(tick, RhoGreek) }
func Vega(tick models.Tick) (float64, error)      { return Greek(tick, VegaGreek) }
func Epsilon(tick models.Tick) (float64, error)   { return Greek(tick, EpsilonGreek) }
func Vanna(tick models.Tick) (float64, error)     { return Greek(tick, VannaGreek) }
func Charm(tick models.Tick) (float64, error)     { return Greek(tick, CharmGreek) }
func Vomma(tick models.Tick) (float64, error)     { return Greek(tick, VommaGreek) }
func Veta(tick models.Tick) (float64, error)      { return Greek(tick, VetaGreek) }
func Speed(tick models.Tick) (float64, error)     { return Greek(tick, SpeedGreek) }
func Zomma(tick models.Tick) (float64, error)     { return Greek(tick, ZommaGreek) }
func Color(tick models.Tick) (float64, error)     { return Greek(tick, ColorGreek) }
func Ultima(tick models.Tick) (float64, error)    { return Greek(tick, UltimaGreek) }
func DualDelta(tick models.Tick) (float64, error) { return Greek(tick, DualDeltaGreek) }
func DualGamma(tick models.Tick) (float64, error) { return Greek(tick, DualGammaGreek) }
