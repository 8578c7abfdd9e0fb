package models

import (
	"fmt"
)

const (
	DefaultRiskFreeRate  = 0.001
	DefaultDividendYield = 0.0
)

type AdditionalData struct {
	OpenInterest *float64 `json:"open_interest,omitempty"`
	Volume       *float64 `json:"volume,omitempty"`
}

// Tick is a single option quote. Ticks are values: every conversion returns a new Tick.
type Tick struct {
	Strike         float64
	Maturity       Maturity
	AssetPrice     float64
	RiskFreeRate   float64
	DividendYield  float64
	OptionType     OptionType
	Value          OptionValue
	Side           OptionSide
	AdditionalData *AdditionalData
}

type TickOption func(*Tick)

func WithRiskFreeRate(r float64) TickOption {
	return func(t *Tick) { t.RiskFreeRate = r }
}

func WithDividendYield(q float64) TickOption {
	return func(t *Tick) { t.DividendYield = q }
}

func WithSide(side OptionSide) TickOption {
	return func(t *Tick) { t.Side = side }
}

func WithOpenInterest(oi float64) TickOption {
	return func(t *Tick) {
		if t.AdditionalData == nil {
			t.AdditionalData = &AdditionalData{}
		}
		t.AdditionalData.OpenInterest = &oi
	}
}

func WithVolume(volume float64) TickOption {
	return func(t *Tick) {
		if t.AdditionalData == nil {
			t.AdditionalData = &AdditionalData{}
		}
		t.AdditionalData.Volume = &volume
	}
}

func NewTick(strike float64, maturity Maturity, assetPrice float64, optionType OptionType, value OptionValue, opts ...TickOption) Tick {
	t := Tick{
		Strike:        strike,
		Maturity:      maturity,
		AssetPrice:    assetPrice,
		RiskFreeRate:  DefaultRiskFreeRate,
		DividendYield: DefaultDividendYield,
		OptionType:    optionType,
		Value:         value,
	}

	for _, opt := range opts {
		opt(&t)
	}

	return t
}

func (t Tick) Validate() error {
	if err := t.OptionType.Validate(); err != nil {
		return fmt.Errorf("Tick.Validate: %w", err)
	}

	if err := t.Side.Validate(); err != nil {
		return fmt.Errorf("Tick.Validate: %w", err)
	}

	if t.Value == nil {
		return fmt.Errorf("Tick.Validate: option value not set")
	}

	if t.Strike <= 0 {
		return fmt.Errorf("Tick.Validate: strike must be positive, found %v", t.Strike)
	}

	if t.AssetPrice <= 0 {
		return fmt.Errorf("Tick.Validate: asset price must be positive, found %v", t.AssetPrice)
	}

	return nil
}

// GetValue returns the raw amount without distinguishing between price and implied volatility.
func (t Tick) GetValue() float64 {
	return ValueOf(t.Value)
}

func (t Tick) GetStrike() float64 {
	return t.Strike
}

func (t Tick) GetMaturity() Maturity {
	return t.Maturity
}

func (t Tick) GetOptionType() OptionType {
	return t.OptionType
}

// SameContract reports whether both ticks quote the same strike, maturity and option type.
func (t Tick) SameContract(other Tick) bool {
	return t.Strike == other.Strike && t.Maturity == other.Maturity && t.OptionType == other.OptionType
}

// IsEmpty reports whether the tick carries no usable quote.
func (t Tick) IsEmpty() bool {
	return t.Value == nil || t.GetValue() < Epsilon
}

// Quote returns the tick itself so that a Tick can stand as its own representative quote.
func (t Tick) Quote() (Tick, error) {
	if t.Value == nil {
		return Tick{}, fmt.Errorf("Tick.Quote: %w", MissingQuoteErr)
	}

	return t, nil
}

// Upsert replaces t with tick. Both must quote the same contract.
func (t Tick) Upsert(tick Tick) (Tick, error) {
	if !t.SameContract(tick) {
		return t, fmt.Errorf("Tick.Upsert: %s does not match %s: %w", tick, t, KeyMismatchErr)
	}

	if err := tick.Validate(); err != nil {
		return t, fmt.Errorf("Tick.Upsert: %w", err)
	}

	return tick, nil
}

// Delete removes the quote, leaving nothing behind.
func (t Tick) Delete(tick Tick) (Tick, bool, error) {
	if !t.SameContract(tick) {
		return t, false, fmt.Errorf("Tick.Delete: %s does not match %s: %w", tick, t, KeyMismatchErr)
	}

	return Tick{}, true, nil
}

func (t Tick) Kind() ValueKind {
	if t.Value == nil {
		return ""
	}

	return t.Value.Kind()
}

func (t Tick) Tau() float64 {
	return t.Maturity.Tau(Now())
}

func (t Tick) Volume() (float64, bool) {
	if t.AdditionalData == nil || t.AdditionalData.Volume == nil {
		return 0, false
	}

	return *t.AdditionalData.Volume, true
}

func (t Tick) OpenInterest() (float64, bool) {
	if t.AdditionalData == nil || t.AdditionalData.OpenInterest == nil {
		return 0, false
	}

	return *t.AdditionalData.OpenInterest, true
}

func (t Tick) WithValue(v OptionValue) Tick {
	t.Value = v
	return t
}

func (t Tick) WithStrike(strike float64) Tick {
	t.Strike = strike
	return t
}

func (t Tick) WithSide(side OptionSide) Tick {
	t.Side = side
	return t
}

func (t Tick) String() string {
	return fmt.Sprintf("%s %.2f@%s %s=%v side=%q spot=%.2f", t.OptionType, t.Strike, t.Maturity, t.Kind(), t.GetValue(), t.Side, t.AssetPrice)
}
