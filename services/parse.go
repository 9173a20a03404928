package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// separatorRun matches one or more ", " separators left by empty names.
	separatorRun = regexp.MustCompile(`(?:,\s*)+`)
	// currencyCode matches a leading ISO-style currency code such as "USD".
	currencyCode = regexp.MustCompile(`^[A-Z]{3}\s*`)
)

// ParseRuntime extracts whole minutes from text such as "142 min".
func ParseRuntime(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "min"))
	if s == "" {
		return 0, unparseable("runtime", raw, nil)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, unparseable("runtime", raw, err)
	}
	return n, nil
}

// ParseYear parses a release year such as "1994".
func ParseYear(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, unparseable("year", raw, err)
	}
	return n, nil
}

// DeriveDecade returns floor(year/10)*10 for the parsed year. When the
// year does not parse the decade is undefined and an error is returned.
func DeriveDecade(raw string) (int, error) {
	year, err := ParseYear(raw)
	if err != nil {
		return 0, err
	}
	return int(math.Floor(float64(year)/10)) * 10, nil
}

// NormalizeActorList joins up to four actor names with ", ". Empty names
// leave no trace: no doubled separators, no leading or trailing comma.
func NormalizeActorList(names ...string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = strings.TrimSpace(n)
	}
	joined := strings.Join(parts, ", ")
	joined = separatorRun.ReplaceAllString(joined, ", ")
	return strings.Trim(joined, ", ")
}

// ParseCurrencyNumber parses money text such as "$28,341,469" or "USD 1,200.50".
func ParseCurrencyNumber(raw string) (float64, error) {
	s := stripNumberNoise(raw)
	if s == "" {
		return 0, unparseable("currency", raw, nil)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, unparseable("currency", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, unparseable("currency", raw, nil)
	}
	return f, nil
}

// ParseGroupedInteger parses digit groups such as "2,343,110".
func ParseGroupedInteger(raw string) (int64, error) {
	s := stripNumberNoise(raw)
	if s == "" {
		return 0, unparseable("integer", raw, nil)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, unparseable("integer", raw, err)
	}
	return n, nil
}

// ParseScore parses a decimal score such as "9.3" or "80".
func ParseScore(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, unparseable("score", raw, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, unparseable("score", raw, nil)
	}
	return f, nil
}

// SplitGenres splits "Crime, Drama" into its trimmed, non-empty parts.
func SplitGenres(raw string) []string {
	var out []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// stripNumberNoise removes currency symbols, currency codes, thousands
// separators and whitespace.
func stripNumberNoise(raw string) string {
	s := strings.TrimSpace(raw)
	s = currencyCode.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '_' || r == '\'':
			return -1
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			return -1
		}
		return r
	}, s)
}
