package utils

import (
	"strconv"
	"strings"
)

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// Pluralize prefixes count and pluralizes word when count != 1.
// Covers the regular English endings option names use ("Size", "Box", "Accessory").
func Pluralize(word string, count int) string {
	if count == 1 || word == "" {
		return strconv.Itoa(count) + " " + word
	}
	return strconv.Itoa(count) + " " + plural(word)
}

func plural(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"), strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}
