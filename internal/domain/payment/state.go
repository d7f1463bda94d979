// internal/domain/payment/state.go
package payment

import (
	"fmt"
	"strings"
	"time"
)

// ParseStatus normalizes a status string to its lowercase enum value
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return status, nil
}

// Valid reports whether the status is one of the known states
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusFailed, StatusRefunded, StatusCompleted:
		return true
	}
	return false
}

// ParseMethod matches a method name case-insensitively against the accepted methods
func ParseMethod(s string) (Method, error) {
	trimmed := strings.TrimSpace(s)
	for _, m := range Methods {
		if strings.EqualFold(string(m), trimmed) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid method %q", s)
}

// Valid reports whether the method is accepted
func (m Method) Valid() bool {
	_, err := ParseMethod(string(m))
	return err == nil
}

// Transition rules for the dedicated actions. A generic admin update may move
// a record between any two states.
var actionSources = map[Status][]Status{
	StatusPaid:      {StatusPending},               // gateway finalize success
	StatusFailed:    {StatusPending},               // gateway finalize failure
	StatusRefunded:  {StatusPaid, StatusCompleted}, // admin refund
	StatusCompleted: {StatusPaid},                  // admin complete
}

// CanTransition reports whether a dedicated action may move from one status to another
func CanTransition(from, to Status) bool {
	for _, allowed := range actionSources[to] {
		if allowed == from {
			return true
		}
	}
	return false
}

// transitionTo sets the status and appends a history entry when the status
// actually changes. It reports whether a change happened.
func (p *Payment) transitionTo(to Status, by Actor, note string, at time.Time) bool {
	if p.Status == to {
		return false
	}

	p.History = append(p.History, HistoryEntry{
		From: p.Status,
		To:   to,
		At:   at,
		By:   by,
		Note: note,
	})
	p.Status = to
	return true
}

// mergeMeta overwrites only the fields present in the patch
func (p *Payment) mergeMeta(patch *MetaPatch) {
	if patch == nil {
		return
	}
	if patch.Gateway != nil {
		p.Meta.Gateway = *patch.Gateway
	}
	if patch.TransactionID != nil {
		p.Meta.TransactionID = *patch.TransactionID
	}
	if patch.Notes != nil {
		p.Meta.Notes = *patch.Notes
	}
}
