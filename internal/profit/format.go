package profit

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Display separators come from the Dutch locale data; the digits never pass
// through a float.
var groupSeparator, decimalSeparator = localeSeparators(language.Dutch)

// localeSeparators reads the grouping and decimal symbols of tag off a sample
// rendering of 1234.5.
func localeSeparators(tag language.Tag) (group, dec string) {
	sample := []rune(message.NewPrinter(tag).Sprint(number.Decimal(1234.5, number.Scale(1))))
	if len(sample) != 7 {
		return ",", "."
	}
	return string(sample[1]), string(sample[5])
}

// FormatEUR renders amount the way the back-office displays money: Dutch separators,
// a euro sign and exactly two decimals. Rounding (half away from zero) happens here
// and nowhere else.
func FormatEUR(amount decimal.Decimal) string {
	return "€ " + localized(amount, 2)
}

// FormatPercent renders a percentage with one decimal, e.g. "31,6%".
func FormatPercent(p decimal.Decimal) string {
	return localized(p, 1) + "%"
}

func localized(v decimal.Decimal, places int32) string {
	s := v.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}
	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteRune(digit)
	}
	if frac != "" {
		b.WriteString(decimalSeparator)
		b.WriteString(frac)
	}
	return b.String()
}
