package models

import "fmt"

type OptionType string

func (o OptionType) Validate() error {
	if o != Call && o != Put {
		return fmt.Errorf("OptionType: Validate: invalid option type: %s", o)
	}

	return nil
}

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// OptionSide is the optional quote side. NoSide marks a quote that is neither bid nor ask,
// e.g. a mid or a synthetic quote.
type OptionSide string

func (s OptionSide) Validate() error {
	if s != Bid && s != Ask && s != NoSide {
		return fmt.Errorf("OptionSide: Validate: invalid option side: %s", s)
	}

	return nil
}

const (
	Bid    OptionSide = "bid"
	Ask    OptionSide = "ask"
	NoSide OptionSide = ""
)
