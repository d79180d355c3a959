package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// TraceID generates the per-notification trace id attached to audit logs.
func TraceID() string {
	return uuid.New().String()
}

// FormatNumber renders n with thousands separators for report messages.
func FormatNumber(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	str := fmt.Sprintf("%d", n)
	result := ""
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return sign + result
}
