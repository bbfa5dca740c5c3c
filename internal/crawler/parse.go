package crawler

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	currencyRe   = regexp.MustCompile(`(?i)R\$`)
	amountRe     = regexp.MustCompile(`\d[\d.,]*`)
	dayOfMonthRe = regexp.MustCompile(`(\d{1,2})\s+de\s+(\p{L}+)`)

	monthYearRe = regexp.MustCompile(`(?i)\s*(JANEIRO|FEVEREIRO|MARÇO|MARCO|ABRIL|MAIO|JUNHO|JULHO|AGOSTO|SETEMBRO|OUTUBRO|NOVEMBRO|DEZEMBRO)\s*\d{4}`)
	dayRangeRe  = regexp.MustCompile(`(?i)\s*-\s*\d{1,2}\s+DE\s+\p{L}+`)
	holidayRe   = regexp.MustCompile(`(?i)\s*feriado(\s+\p{L}+)?`)
)

// ParsePrice converts Brazilian currency text into a number.
// "R$1.599,00" gives 1599, "R$159,00" gives 159 and "159,90" gives 159.9.
// Anything unparseable, negative or non-finite gives 0.
func ParsePrice(text string) float64 {
	t := strings.Join(strings.Fields(text), "")
	t = currencyRe.ReplaceAllString(t, "")
	t = amountRe.FindString(t)
	t = strings.TrimRight(t, ".,")
	if t == "" {
		return 0
	}

	if i := strings.LastIndex(t, ","); i >= 0 {
		// Comma is the decimal separator, dots group thousands
		intPart := strings.NewReplacer(".", "", ",", "").Replace(t[:i])
		t = intPart + "." + t[i+1:]
	} else if dots := strings.Count(t, "."); dots > 1 || (dots == 1 && len(t)-strings.LastIndex(t, ".")-1 == 3) {
		t = strings.ReplaceAll(t, ".", "")
	}

	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// ParseDigits keeps only the digits of text. The second result is false
// when there are none, so callers can tell "absent" from zero.
func ParseDigits(text string) (float64, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// DurationDays estimates the number of days between two fragments such as
// "07 de fev" and "09 de fev". Only the day numbers are compared and a
// negative difference is taken to cross into the next month, counted as
// 30 days. It is an approximation, not calendar arithmetic.
func DurationDays(departure, ret string) (int, bool) {
	dep := dayOfMonthRe.FindStringSubmatch(departure)
	back := dayOfMonthRe.FindStringSubmatch(ret)
	if dep == nil || back == nil {
		return 0, false
	}
	depDay, err1 := strconv.Atoi(dep[1])
	retDay, err2 := strconv.Atoi(back[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	diff := retDay - depDay
	if diff < 0 {
		diff += 30
	}
	return diff + 1, true
}

// FormatDuration renders a day count the way the listing does
func FormatDuration(days int) string {
	if days == 1 {
		return "1 dia"
	}
	return strconv.Itoa(days) + " dias"
}

// ExtractDestination derives a destination from a card title by dropping
// dates and holiday suffixes: "▶ ILHABELA FEVEREIRO 2026" gives "Ilhabela".
func ExtractDestination(title string) string {
	s := strings.NewReplacer("▶️", "", "▶", "").Replace(title)
	s = monthYearRe.ReplaceAllString(s, "")
	s = dayRangeRe.ReplaceAllString(s, "")
	s = holidayRe.ReplaceAllString(s, "")
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '–' || r == '|'
	})
	if s == "" {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.Join(strings.Fields(s), " "))
}
