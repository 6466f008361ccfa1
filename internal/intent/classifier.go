// Package intent decides whether a message starts an order flow.
package intent

import (
	"strings"
	"sync"
)

// defaultKeywords is the fixed rule set used when no override is configured.
var defaultKeywords = []string{
	"order",
	"buy",
	"purchase",
	"place an order",
	"i want to order",
}

// Classifier reports whether a message expresses order intent. Implementations
// can be swapped (e.g. for a model-based classifier) without touching the
// state machine contract.
type Classifier interface {
	IsOrderIntent(message string) bool
}

// KeywordClassifier matches case-insensitive substrings against a keyword set.
// Substring matching makes false positives like "disorder" possible; that is
// the documented behavior, not a bug.
type KeywordClassifier struct {
	mu       sync.RWMutex
	keywords []string
}

// NewKeywordClassifier builds a classifier with the given keywords, falling
// back to the built-in set when none are provided.
func NewKeywordClassifier(keywords []string) *KeywordClassifier {
	c := &KeywordClassifier{}
	c.SetKeywords(keywords)
	return c
}

// SetKeywords replaces the keyword set. Used by config hot reload.
func (c *KeywordClassifier) SetKeywords(keywords []string) {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}

	if len(normalized) == 0 {
		normalized = append(normalized, defaultKeywords...)
	}

	c.mu.Lock()
	c.keywords = normalized
	c.mu.Unlock()
}

// IsOrderIntent reports whether the message contains any configured keyword.
func (c *KeywordClassifier) IsOrderIntent(message string) bool {
	msg := strings.ToLower(message)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, kw := range c.keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}

	return false
}
