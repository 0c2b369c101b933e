package validatex

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// First returns the first non-nil error. Constructors list their rules in
// the order they should be reported.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Required fails on an empty string
func Required(field, value string) error {
	if value == "" {
		return fieldError(ErrRequired, field, "%s is required", field)
	}
	return nil
}

// Length checks min <= len(value) <= max, counting code points.
// A min of zero allows the empty string.
func Length(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min == 0 {
			return fieldError(ErrLength, field, "%s must be at most %d characters, got %d", field, max, n).
				WithDetail("max", max)
		}
		return fieldError(ErrLength, field, "%s must be between %d and %d characters, got %d", field, min, max, n).
			WithDetail("min", min).
			WithDetail("max", max)
	}
	return nil
}

// MaxLength is Length with no lower bound
func MaxLength(field, value string, max int) error {
	return Length(field, value, 0, max)
}

// Count checks min <= n <= max for collection sizes
func Count(field string, n, min, max int) error {
	if n < min || n > max {
		return fieldError(ErrCount, field, "%s must have between %d and %d items, got %d", field, min, max, n).
			WithDetail("min", min).
			WithDetail("max", max)
	}
	return nil
}

// NotEmpty requires at least one item
func NotEmpty(field string, n int) error {
	if n < 1 {
		return fieldError(ErrCount, field, "%s needs at least one item", field)
	}
	return nil
}

// Unique fails on the first repeated item
func Unique[T comparable](field string, items []T) error {
	seen := make(map[T]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			return fieldError(ErrDuplicate, field, "%s must be unique, %v is repeated", field, item).
				WithDetail("value", fmt.Sprint(item))
		}
		seen[item] = struct{}{}
	}
	return nil
}

// NoSurroundingSpace rejects leading or trailing whitespace
func NoSurroundingSpace(field, value string) error {
	if strings.TrimSpace(value) != value {
		return fieldError(ErrFormat, field, "%s cannot start or end with whitespace", field)
	}
	return nil
}

// Range checks min <= v <= max
func Range(field string, v, min, max float64) error {
	if v < min || v > max {
		return fieldError(ErrRange, field, "%s must be between %g and %g, got %g", field, min, max, v)
	}
	return nil
}

// Pattern checks value against re; desc names the expected format
func Pattern(field, value string, re *regexp.Regexp, desc string) error {
	if !re.MatchString(value) {
		return fieldError(ErrFormat, field, "%s must be %s", field, desc)
	}
	return nil
}

// ExactlyOne fails unless exactly one of set is true
func ExactlyOne(field string, set ...bool) error {
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	if n != 1 {
		return fieldError(ErrExclusive, field, "exactly one %s must be set, got %d", field, n)
	}
	return nil
}

// SingleEmoji requires value to be one grapheme cluster that is an emoji.
// Multi-codepoint emoji (skin tones, ZWJ families, flags) count as one.
func SingleEmoji(field, value string) error {
	if uniseg.GraphemeClusterCount(value) != 1 || !gomoji.ContainsEmoji(value) {
		return fieldError(ErrFormat, field, "%s must be a single emoji", field)
	}
	return nil
}
