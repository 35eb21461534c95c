package services

import (
	"math"
	"strconv"
	"strings"
)

// formatINR renders an amount as zero-decimal rupees with Indian digit
// grouping (last three digits, then pairs): 1234567 -> ₹12,34,567.
// The sign is dropped; callers phrase direction in the surrounding text.
func formatINR(amount float64) string {
	n := int64(math.Round(math.Abs(amount)))
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return "₹" + s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return "₹" + strings.Join(groups, ",") + "," + tail
}
