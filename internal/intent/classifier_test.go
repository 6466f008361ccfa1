package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier_IsOrderIntent(t *testing.T) {
	c := NewKeywordClassifier(nil)

	testCases := []struct {
		name    string
		message string
		want    bool
	}{
		{name: "explicit order request", message: "I want to order a red scarf", want: true},
		{name: "buy keyword", message: "can I BUY this?", want: true},
		{name: "purchase keyword", message: "purchase", want: true},
		{name: "plain question", message: "what's your return policy", want: false},
		{name: "greeting", message: "hi there", want: false},
		{name: "substring false positive is documented behavior", message: "I have a disorder", want: true},
		{name: "empty message", message: "", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.IsOrderIntent(tc.message))
		})
	}
}

func TestKeywordClassifier_SetKeywords(t *testing.T) {
	c := NewKeywordClassifier([]string{"bestellen"})

	assert.True(t, c.IsOrderIntent("ich möchte bestellen"))
	assert.False(t, c.IsOrderIntent("I want to order"))

	c.SetKeywords([]string{" Order "})
	assert.True(t, c.IsOrderIntent("order please"))
}

func TestKeywordClassifier_EmptyOverrideFallsBackToDefaults(t *testing.T) {
	c := NewKeywordClassifier([]string{"", "  "})

	assert.True(t, c.IsOrderIntent("place an order"))
}
