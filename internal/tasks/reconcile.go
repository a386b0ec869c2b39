package tasks

import (
	"strings"

	"github.com/google/uuid"

	"tasktrack/internal/service"
)

// ProvisionalPrefix marks ids generated locally when the authority was
// unreachable.
const ProvisionalPrefix = "local-"

// NewProvisionalID returns a fresh local id. UUIDv7 values are
// timestamp-ordered and never repeat within a process.
func NewProvisionalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ProvisionalPrefix + id.String()
}

// IsProvisional reports whether id was generated locally.
func IsProvisional(id string) bool {
	return strings.HasPrefix(id, ProvisionalPrefix)
}

// ReconcileAdd decides which task to append after a create attempt: the
// authority's copy when the call succeeded, otherwise a local task with
// newID.
func ReconcileAdd(text string, remote service.Task, err error, newID func() string) (task service.Task, synced bool) {
	if err == nil {
		return remote, true
	}
	return service.Task{ID: newID(), Text: text, Completed: false}, false
}

// ReconcileToggle decides the completion state after a toggle attempt:
// the authority's value when the call succeeded, otherwise the negation
// of prior.
func ReconcileToggle(prior, remote bool, err error) (completed bool, synced bool) {
	if err == nil {
		return remote, true
	}
	return !prior, false
}
