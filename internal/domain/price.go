package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice reads an amount in the smallest currency unit. Admin input may
// arrive comma-grouped ("3,999"), so grouping characters are stripped before
// parsing.
func ParsePrice(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '_':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}

	price, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	if price < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}

	return price, nil
}

// FormatPrice renders an amount with thousands grouping ("3999" -> "3,999").
func FormatPrice(price int64) string {
	digits := strconv.FormatInt(price, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	return b.String()
}
