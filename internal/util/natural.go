package util

import (
	"regexp"
	"strings"
)

var tokenizer = regexp.MustCompile(`(\d+|\D+)`)

// NaturalLess orders strings the way people read them, so "Top 2" comes
// before "Top 10". Letters compare case-insensitively. Digit runs compare
// by value without parsing, so arbitrarily long numbers are fine.
func NaturalLess(a, b string) bool {
	ta := tokenizer.FindAllString(a, -1)
	tb := tokenizer.FindAllString(b, -1)

	for i := 0; i < len(ta) && i < len(tb); i++ {
		x, y := ta[i], tb[i]
		xNum, yNum := isDigit(x[0]), isDigit(y[0])
		switch {
		case xNum && !yNum:
			return true
		case !xNum && yNum:
			return false
		case xNum:
			x, y = strings.TrimLeft(x, "0"), strings.TrimLeft(y, "0")
			if len(x) != len(y) {
				return len(x) < len(y)
			}
			if x != y {
				return x < y
			}
		default:
			x, y = strings.ToLower(x), strings.ToLower(y)
			if x != y {
				return x < y
			}
		}
	}
	return len(ta) < len(tb)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
