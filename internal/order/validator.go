package order

import "context"

// Oracle answers product existence queries. The retrieval subsystem behind it
// is a black box; a product exists when the top match is non-empty.
type Oracle interface {
	ProductExists(ctx context.Context, name string) (bool, error)
}

// IsValidPhone reports whether text is a contact phone number in the accepted
// format: exactly 11 ASCII digits, no separators or country-code prefix.
func IsValidPhone(text string) bool {
	if len(text) != 11 {
		return false
	}

	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}

	return true
}
