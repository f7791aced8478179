// Package lifecycle holds the transaction status state machine.
package lifecycle

import (
	"strings"

	"github.com/piresc/payon/internal/pkg/models"
)

var transitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.TransactionStatusPending: {
		models.TransactionStatusAnalyzing,
	},
	models.TransactionStatusAnalyzing: {
		models.TransactionStatusValidated,
		models.TransactionStatusRejected,
		models.TransactionStatusSuspect,
	},
	models.TransactionStatusSuspect: {
		models.TransactionStatusValidated,
		models.TransactionStatusRejected,
	},
}

var ranks = map[models.TransactionStatus]int{
	models.TransactionStatusPending:   0,
	models.TransactionStatusAnalyzing: 1,
	models.TransactionStatusSuspect:   2,
	models.TransactionStatusValidated: 3,
	models.TransactionStatusRejected:  3,
}

// Statuses lists every known status in lifecycle order
func Statuses() []models.TransactionStatus {
	return []models.TransactionStatus{
		models.TransactionStatusPending,
		models.TransactionStatusAnalyzing,
		models.TransactionStatusSuspect,
		models.TransactionStatusValidated,
		models.TransactionStatusRejected,
	}
}

// CanTransition reports whether from -> to is a single legal step
func CanTransition(from, to models.TransactionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Apply validates a proposed transition and returns the resulting status.
// Any pair outside the legal set yields a *models.TransitionError and the
// current status is left as is.
func Apply(current, proposed models.TransactionStatus) (models.TransactionStatus, error) {
	if !CanTransition(current, proposed) {
		return current, &models.TransitionError{From: current, To: proposed}
	}
	return proposed, nil
}

// IsTerminal reports whether no further transition is possible
func IsTerminal(s models.TransactionStatus) bool {
	return s == models.TransactionStatusValidated || s == models.TransactionStatusRejected
}

// IsAwaitingReview is true only while a human reviewer holds the transaction
func IsAwaitingReview(s models.TransactionStatus) bool {
	return s == models.TransactionStatusSuspect
}

// IsKnown reports whether s is one of the five lifecycle statuses
func IsKnown(s models.TransactionStatus) bool {
	_, ok := ranks[s]
	return ok
}

// Rank orders statuses along the lifecycle. Unknown statuses rank -1.
func Rank(s models.TransactionStatus) int {
	if r, ok := ranks[s]; ok {
		return r
	}
	return -1
}

// Reachable reports whether a legal path of one or more steps leads from -> to
func Reachable(from, to models.TransactionStatus) bool {
	for _, next := range transitions[from] {
		if next == to || Reachable(next, to) {
			return true
		}
	}
	return false
}

// Parse reads a wire status case-insensitively
func Parse(raw string) (models.TransactionStatus, bool) {
	s := models.TransactionStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !IsKnown(s) {
		return "", false
	}
	return s, true
}

// FromDecision maps a backend AI decision onto the status it leads to
func FromDecision(decision string) (models.TransactionStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(decision)) {
	case "APPROVE":
		return models.TransactionStatusValidated, true
	case "REVIEW":
		return models.TransactionStatusSuspect, true
	case "BLOCK":
		return models.TransactionStatusRejected, true
	}
	return "", false
}

// Reconcile merges an authoritative status into the current one, freshest wins.
// An equal status is a no-op, a staler one returns models.ErrStaleStatus, and a
// status that cannot follow current on any legal path is a *models.TransitionError.
func Reconcile(current, authoritative models.TransactionStatus) (models.TransactionStatus, error) {
	if !IsKnown(authoritative) {
		return current, &models.TransitionError{From: current, To: authoritative}
	}
	if current == authoritative {
		return current, nil
	}
	if Reachable(current, authoritative) {
		return authoritative, nil
	}
	if Reachable(authoritative, current) {
		return current, models.ErrStaleStatus
	}
	return current, &models.TransitionError{From: current, To: authoritative}
}
