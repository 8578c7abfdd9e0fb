package blackscholes

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/option-analytics/src/models"
)

const minVega = 1e-12

// Solver finds the volatility that reprices a quote with Newton-Raphson.
// A non-positive InitialGuess selects the inflection-point start
// sqrt(2*|ln(S/K) + (r-q)*tau| / tau), where vega is maximal.
type Solver struct {
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int
}

var DefaultSolver = Solver{
	InitialGuess:  0,
	Tolerance:     1e-8,
	MaxIterations: 100,
}

const fallbackGuess = 0.5

func (s Solver) Validate() error {
	if !(s.Tolerance > 0) {
		return fmt.Errorf("Solver.Validate: tolerance must be positive, found %v", s.Tolerance)
	}

	if s.MaxIterations <= 0 {
		return fmt.Errorf("Solver.Validate: max iterations must be positive, found %v", s.MaxIterations)
	}

	return nil
}

func (s Solver) initialGuess(p Params) float64 {
	if s.InitialGuess > 0 {
		return s.InitialGuess
	}

	guess := math.Sqrt(2 * math.Abs(math.Log(p.S/p.K)+(p.R-p.Q)*p.Tau) / p.Tau)
	if !(guess > 0) || math.IsInf(guess, 0) {
		return fallbackGuess
	}

	return guess
}

// priceBounds are the no-arbitrage limits of a European option price.
func priceBounds(p Params) (float64, float64) {
	forward := p.S * math.Exp(-p.Q*p.Tau)
	strike := p.K * math.Exp(-p.R*p.Tau)
	if p.Type == models.Call {
		return math.Max(0, forward-strike), forward
	}

	return math.Max(0, strike-forward), strike
}

// Solve returns sigma such that the model price of p matches price.
func (s Solver) Solve(p Params, price float64) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	if err := p.Type.Validate(); err != nil {
		return 0, err
	}

	if !(p.Tau > 0) {
		return 0, fmt.Errorf("Solver.Solve: tau must be positive, found %v: %w", p.Tau, models.UndefinedGreekErr)
	}

	lower, upper := priceBounds(p)
	if !(price > lower && price < upper) {
		return 0, fmt.Errorf("Solver.Solve: price %v outside no-arbitrage bounds (%v, %v): %w", price, lower, upper, models.NonConvergenceErr)
	}

	sigma := s.initialGuess(p)
	for i := 0; i < s.MaxIterations; i++ {
		terms, err := NewTerms(p.WithSigma(sigma))
		if err != nil {
			return 0, fmt.Errorf("Solver.Solve: iteration %d: %w", i, err)
		}

		diff := terms.Price() - price
		if math.Abs(diff) < s.Tolerance {
			log.WithFields(log.Fields{
				"iterations": i,
				"sigma":      sigma,
				"type":       p.Type,
				"strike":     p.K,
			}).Debug("implied volatility converged")

			return sigma, nil
		}

		vega := terms.Vega()
		if vega < minVega || math.IsNaN(vega) {
			return 0, fmt.Errorf("Solver.Solve: vega %v vanished at sigma=%v after %d iterations: %w", vega, sigma, i, models.NonConvergenceErr)
		}

		next := sigma - diff/vega
		if next <= 0 {
			next = sigma / 2
		}

		if math.IsNaN(next) || math.IsInf(next, 0) {
			return 0, fmt.Errorf("Solver.Solve: step diverged at sigma=%v: %w", sigma, models.NonConvergenceErr)
		}

		sigma = next
	}

	log.WithFields(log.Fields{
		"maxIterations": s.MaxIterations,
		"sigma":         sigma,
		"price":         price,
	}).Warn("implied volatility did not converge")

	return 0, fmt.Errorf("Solver.Solve: no solution within %d iterations (last sigma=%v): %w", s.MaxIterations, sigma, models.NonConvergenceErr)
}

// SolveTick converts a price tick into an implied-volatility tick. A tick that already
// holds an implied volatility is returned unchanged.
func (s Solver) SolveTick(tick models.Tick) (models.Tick, error) {
	price, ok := tick.Value.(models.Price)
	if !ok {
		return tick, nil
	}

	p := Params{
		S:    tick.AssetPrice,
		K:    tick.Strike,
		Tau:  tick.Tau(),
		R:    tick.RiskFreeRate,
		Q:    tick.DividendYield,
		Type: tick.OptionType,
	}

	sigma, err := s.Solve(p, float64(price))
	if err != nil {
		return models.Tick{}, fmt.Errorf("SolveTick(%s): %w", tick, err)
	}

	return tick.WithValue(models.ImpliedVolatility(sigma)), nil
}

// ImpliedVolatilityTick solves a tick with the DefaultSolver.
func ImpliedVolatilityTick(tick models.Tick) (models.Tick, error) {
	return DefaultSolver.SolveTick(tick)
}

// ImpliedVolatility returns sigma of a tick, solving for it when the tick holds a price.
func ImpliedVolatility(tick models.Tick) (float64, error) {
	solved, err := DefaultSolver.SolveTick(tick)
	if err != nil {
		return 0, err
	}

	return solved.GetValue(), nil
}
