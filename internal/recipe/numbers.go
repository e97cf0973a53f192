package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrepMinutes is reported for recipes whose steps carry no durations.
const DefaultPrepMinutes = 30

// ParseNumber extracts a number from a free-form string by dropping every
// non-digit character: "749Kcal" is 749, "52g" is 52. Strings without digits
// (or too many to fit an int) yield 0.
func ParseNumber(s string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// PrepMinutes sums the numeric part of each cooking step duration.
func PrepMinutes(r Recipe) int {
	total := 0
	for _, step := range r.CookingSteps {
		total += ParseNumber(step.Duration)
	}
	if total == 0 {
		return DefaultPrepMinutes
	}
	return total
}

// PreparationTime formats PrepMinutes for display.
func PreparationTime(r Recipe) string {
	return fmt.Sprintf("%d min", PrepMinutes(r))
}
