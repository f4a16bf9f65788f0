package scraper

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale controls currency rendering. It is passed explicitly so output never
// depends on process-wide locale state.
type Locale struct {
	Tag    language.Tag
	Symbol string
}

// DefaultLocale renders US dollars with comma grouping
var DefaultLocale = Locale{Tag: language.AmericanEnglish, Symbol: "$"}

// ParseLocale builds a Locale from a BCP 47 tag such as "en-US" or "de-DE"
func ParseLocale(tag, symbol string) (Locale, error) {
	if tag == "" {
		tag = DefaultLocale.Tag.String()
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", tag, err)
	}
	if symbol == "" {
		symbol = DefaultLocale.Symbol
	}
	return Locale{Tag: t, Symbol: symbol}, nil
}

// FormatCurrency renders amount with two decimals and the locale's grouping
func (l Locale) FormatCurrency(amount float64) string {
	if l.Tag == language.Und {
		l = DefaultLocale
	}
	p := message.NewPrinter(l.Tag)
	return l.Symbol + p.Sprint(number.Decimal(amount, number.Scale(2)))
}
