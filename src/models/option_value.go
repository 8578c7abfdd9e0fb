package models

import "fmt"

type ValueKind string

const (
	PriceKind ValueKind = "price"
	IVKind    ValueKind = "iv"
)

func (k ValueKind) Validate() error {
	if k != PriceKind && k != IVKind {
		return fmt.Errorf("ValueKind: Validate: invalid value kind: %s", k)
	}

	return nil
}

// OptionValue is either a Price or an ImpliedVolatility. The set of variants is closed.
type OptionValue interface {
	Kind() ValueKind
	Amount() float64
	isOptionValue()
}

type Price float64

func (p Price) Kind() ValueKind { return PriceKind }
func (p Price) Amount() float64 { return float64(p) }
func (Price) isOptionValue()    {}

type ImpliedVolatility float64

func (v ImpliedVolatility) Kind() ValueKind { return IVKind }
func (v ImpliedVolatility) Amount() float64 { return float64(v) }
func (ImpliedVolatility) isOptionValue()    {}

// NewOptionValue builds the variant named by kind.
func NewOptionValue(kind ValueKind, amount float64) (OptionValue, error) {
	switch kind {
	case PriceKind:
		return Price(amount), nil
	case IVKind:
		return ImpliedVolatility(amount), nil
	default:
		return nil, fmt.Errorf("NewOptionValue: invalid value kind: %s", kind)
	}
}

// ValueOf returns the raw amount of v. The caller is responsible for knowing the kind.
func ValueOf(v OptionValue) float64 {
	if v == nil {
		return 0
	}

	return v.Amount()
}
