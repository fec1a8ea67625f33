// Package trigger normalizes raw CI trigger events into a Context the plan
// engine evaluates job conditions against.
package trigger

import (
	"fmt"
	"strings"
)

// EventKind identifies the class of event that started an evaluation.
type EventKind string

const (
	EventPush        EventKind = "push"
	EventPullRequest EventKind = "pull_request"
	EventScheduled   EventKind = "schedule"
)

// RawEvent is the unparsed event descriptor handed to Classify. Kind is the
// event name as reported by the CI provider; the repository names are only
// populated for pull request events.
type RawEvent struct {
	Kind     string
	HeadRepo string
	BaseRepo string
}

// Context is the normalized trigger for one evaluation run. It is constructed
// once by Classify and never mutated.
type Context struct {
	Kind     EventKind `json:"kind"`
	HeadRepo string    `json:"head_repo,omitempty"`
	BaseRepo string    `json:"base_repo,omitempty"`
}

// UnrecognizedEventError indicates the raw event matched none of the known
// event kinds. There is no sensible default, so classification is fatal.
type UnrecognizedEventError struct {
	Kind string
}

func (e UnrecognizedEventError) Error() string {
	return fmt.Sprintf("unrecognized event kind %q", e.Kind)
}

// Classify maps raw event metadata onto a Context. The three event kinds are
// mutually exclusive; anything else fails with UnrecognizedEventError.
func Classify(raw RawEvent) (Context, error) {
	switch strings.ToLower(strings.TrimSpace(raw.Kind)) {
	case "push":
		return Context{Kind: EventPush}, nil
	case "pull_request", "pull-request", "pr":
		return Context{
			Kind:     EventPullRequest,
			HeadRepo: raw.HeadRepo,
			BaseRepo: raw.BaseRepo,
		}, nil
	case "schedule", "scheduled", "cron":
		return Context{Kind: EventScheduled}, nil
	default:
		return Context{}, UnrecognizedEventError{Kind: raw.Kind}
	}
}

// IsInternalPullRequest reports whether the event is a pull request whose head
// and base branches live in the same repository. Internal PRs are already
// covered by the corresponding push event. A missing repository name on either
// side never counts as internal.
func (c Context) IsInternalPullRequest() bool {
	if c.Kind != EventPullRequest {
		return false
	}
	if c.HeadRepo == "" || c.BaseRepo == "" {
		return false
	}
	return c.HeadRepo == c.BaseRepo
}

// IsExternalPullRequest reports whether the event is a pull request from a
// fork, which no push event covers.
func (c Context) IsExternalPullRequest() bool {
	return c.Kind == EventPullRequest && !c.IsInternalPullRequest()
}
