package validation

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"tabsd/pkg/models"
)

// Rules bounds inbound message batches. Messages arrive from a
// weakly-typed external source, so these are sanity limits for the API
// boundary, not engine invariants: the engine tolerates partial data by
// design.
type Rules struct {
	// MaxBatch caps messages per append (0 = unlimited).
	MaxBatch int
	// MaxTextLen caps message text length in runes (0 = unlimited).
	MaxTextLen int
}

var (
	rulesMu sync.RWMutex
	rules   Rules
)

// SetRules installs the global validation rules (set once at startup).
func SetRules(r Rules) {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	rules = r
}

// GetRules returns the installed rules.
func GetRules() Rules {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	return rules
}

// ValidateBatch checks an inbound batch against the installed rules.
func ValidateBatch(msgs []models.Message) error {
	r := GetRules()
	if r.MaxBatch > 0 && len(msgs) > r.MaxBatch {
		return fmt.Errorf("batch too large: %d messages (max %d)", len(msgs), r.MaxBatch)
	}
	for i, m := range msgs {
		if err := ValidateMessage(m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

// ValidateMessage checks a single message. Peer data is allowed to be
// absent or malformed (the engine classifies such messages as Unknown),
// but structurally impossible values are rejected here.
func ValidateMessage(m models.Message) error {
	r := GetRules()
	if m.ID == "" {
		return fmt.Errorf("missing id")
	}
	if m.Peer.ID < 0 {
		return fmt.Errorf("negative peer id")
	}
	if m.From != nil && m.From.ID < 0 {
		return fmt.Errorf("negative sender id")
	}
	if r.MaxTextLen > 0 && utf8.RuneCountInString(m.Text) > r.MaxTextLen {
		return fmt.Errorf("text too long: %d runes (max %d)", utf8.RuneCountInString(m.Text), r.MaxTextLen)
	}
	return nil
}

// ValidateChat rejects chat records that cannot be keyed.
func ValidateChat(c models.Chat) error {
	if !c.Ref().Valid() {
		return fmt.Errorf("chat has no usable kind/id: kind=%q id=%d", c.Kind, c.ID)
	}
	return nil
}
