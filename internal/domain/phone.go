package domain

import "fmt"

// NormalizePhone validates and formats a phone number for the messaging
// provider (E.164 digits, no "+"). All non-digit characters are stripped;
// the result must be 10-15 digits.
func NormalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPhone)
	}

	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	if len(digits) < 10 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %d digits (expected 10-15)", ErrInvalidPhone, len(digits))
	}
	return string(digits), nil
}

// MaskPhone masks a phone number for logs and reports, keeping only the
// first two and last two digits (e.g. "15...67").
func MaskPhone(phone string) string {
	if len(phone) < 4 {
		return "****"
	}
	return phone[:2] + "..." + phone[len(phone)-2:]
}
