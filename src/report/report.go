// Package report renders board analytics as text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jiaming2012/option-analytics/src/models"
	"github.com/jiaming2012/option-analytics/src/optionchain"
)

const (
	pricePlaces = 2
	ivPlaces    = 4
)

// Cell is one synthetic quote of a chain, or the reason it could not be derived.
type Cell struct {
	Strike float64
	Kind   models.ValueKind
	Value  decimal.Decimal
	Err    error
}

func newCell(tick models.Tick, err error) Cell {
	if err != nil {
		return Cell{Err: err}
	}

	places := int32(pricePlaces)
	if tick.Kind() == models.IVKind {
		places = ivPlaces
	}

	return Cell{
		Strike: tick.Strike,
		Kind:   tick.Kind(),
		Value:  decimal.NewFromFloat(tick.GetValue()).Round(places),
	}
}

type ChainRow struct {
	Maturity models.Maturity
	Spot     float64
	Entries  int
	ATM      Cell
	Call25   Cell
	Call50   Cell
	Put25    Cell
	Put50    Cell
}

// Summarize derives the ATM and delta-bucket quotes of every chain, nearest maturity first.
func Summarize[T optionchain.Entry[T]](board *optionchain.Board[T]) []ChainRow {
	var rows []ChainRow
	for _, chain := range board.SortByMaturity() {
		rows = append(rows, ChainRow{
			Maturity: chain.Maturity(),
			Spot:     chain.AssetPrice(),
			Entries:  chain.Len(),
			ATM:      newCell(chain.ATM()),
			Call25:   newCell(chain.Call25Delta()),
			Call50:   newCell(chain.Call50Delta()),
			Put25:    newCell(chain.Put25Delta()),
			Put50:    newCell(chain.Put50Delta()),
		})
	}

	return rows
}

func formatValue(p *message.Printer, c Cell) string {
	if c.Err != nil {
		return "n/a"
	}

	if c.Kind == models.IVKind {
		return fmt.Sprintf("%s%%", c.Value.Shift(2).StringFixed(ivPlaces-2))
	}

	f, _ := c.Value.Float64()
	return fmt.Sprintf("$%s", p.Sprintf("%.2f", f))
}

func formatCell(p *message.Printer, c Cell) string {
	if c.Err != nil {
		return "n/a"
	}

	return fmt.Sprintf("%s @ %s", formatValue(p, c), p.Sprintf("%.2f", c.Strike))
}

// Render writes the rows as a table.
func Render(w io.Writer, rows []ChainRow) {
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Maturity", "Spot", "Quotes", "ATM", "25d Call", "50d Call", "25d Put", "50d Put"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, row := range rows {
		table.Append([]string{
			row.Maturity.String(),
			p.Sprintf("%.2f", row.Spot),
			fmt.Sprintf("%d", row.Entries),
			formatValue(p, row.ATM),
			formatCell(p, row.Call25),
			formatCell(p, row.Call50),
			formatCell(p, row.Put25),
			formatCell(p, row.Put50),
		})
	}

	table.Render()
}

// BoardTable summarizes and renders a board.
func BoardTable[T optionchain.Entry[T]](board *optionchain.Board[T]) string {
	display := &strings.Builder{}
	display.WriteString("Option Board:\n")
	Render(display, Summarize(board))
	return display.String()
}
