package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pageza/foodgram/backend/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const shoppingListHeader = "Shopping list"

// RenderShoppingList formats items as plain text, one ingredient per line.
// Amounts are rounded to two decimals for display only.
func RenderShoppingList(items []types.ShoppingListItem) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.WriteString(shoppingListHeader)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) — %s\n",
			capitalize(item.Name, upper, lower),
			item.MeasurementUnit,
			formatAmount(item.Amount),
		)
	}
	return b.String()
}

func capitalize(s string, upper, lower cases.Caser) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return upper.String(s[:size]) + lower.String(s[size:])
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(math.Round(amount*100)/100, 'f', -1, 64)
}
