// Package shopping builds the downloadable shopping list from the
// ingredients of the recipes in a user's cart.
package shopping

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/matt-dz/foodgram/internal/database"
)

type Line struct {
	Name   string
	Unit   string
	Amount int64
}

type key struct {
	name string
	unit string
}

// Aggregate sums the amounts of every (name, unit) pair. The result is
// sorted by name, then unit.
func Aggregate(items []database.ShoppingCartIngredient) []Line {
	totals := make(map[key]int64, len(items))
	for _, item := range items {
		totals[key{item.Name, item.MeasurementUnit}] += int64(item.Amount)
	}

	lines := make([]Line, 0, len(totals))
	for k, amount := range totals {
		lines = append(lines, Line{Name: k.name, Unit: k.unit, Amount: amount})
	}
	slices.SortFunc(lines, func(a, b Line) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Unit, b.Unit))
	})
	return lines
}

// Write renders lines as plain text under a header naming the owner.
func Write(w io.Writer, firstName, lastName string, lines []Line) error {
	if _, err := fmt.Fprintf(w, "Shopping list for: %s %s\n\n", firstName, lastName); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s (%s) - %d\n", line.Name, line.Unit, line.Amount); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}

// Filename is the attachment name offered for a user's list.
func Filename(username string) string {
	return username + "_shopping_list.txt"
}
