package todo

import (
	"fmt"

	"github.com/jsamuelsen11/go-uow/internal/domain"
)

// Status is the progress state of a todo.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Category groups todos for filtering.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryOther    Category = "other"
)

var (
	knownStatuses   = map[Status]struct{}{StatusPending: {}, StatusInProgress: {}, StatusDone: {}}
	knownCategories = map[Category]struct{}{CategoryPersonal: {}, CategoryWork: {}, CategoryOther: {}}
)

func (s Status) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

func (s Status) String() string { return string(s) }

// ChangeEvent returns the event type raised when a todo moves from s to next.
// Entering done is a completion; every other move, reopening included, is
// an update.
func (s Status) ChangeEvent(next Status) string {
	if next == StatusDone && s != StatusDone {
		return EventCompleted
	}
	return EventUpdated
}

func (c Category) IsValid() bool {
	_, ok := knownCategories[c]
	return ok
}

func (c Category) String() string { return string(c) }

// ParseFilter builds a Filter from raw query values. Empty values leave the
// dimension unfiltered; unknown values yield a *domain.ValidationError keyed
// by field name.
func ParseFilter(status, category string) (Filter, error) {
	f := Filter{Status: Status(status), Category: Category(category)}

	fields := make(map[string]string)
	if f.Status != "" && !f.Status.IsValid() {
		fields["status"] = invalidValue(status)
	}
	if f.Category != "" && !f.Category.IsValid() {
		fields["category"] = invalidValue(category)
	}
	if len(fields) > 0 {
		return Filter{}, &domain.ValidationError{Fields: fields}
	}
	return f, nil
}

func invalidValue(v string) string {
	return fmt.Sprintf("invalid: %q", v)
}
