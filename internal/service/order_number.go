package service

import (
	"fmt"
	"strconv"
	"strings"
)

// FirstOrderNumber is issued to a tenant's very first order
const FirstOrderNumber = "#0001"

// NextOrderNumber parses a tenant's latest order number and returns the next
// one in sequence. Numbers are "#"-prefixed and zero-padded to four digits;
// past 9999 the number simply grows wider, no reuse.
func NextOrderNumber(last string) (string, error) {
	raw := strings.TrimPrefix(last, "#")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("malformed order number %q: %w", last, err)
	}
	return FormatOrderNumber(n + 1), nil
}

// FormatOrderNumber renders a sequence value as a human-readable order number
func FormatOrderNumber(n int) string {
	return fmt.Sprintf("#%04d", n)
}
