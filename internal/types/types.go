// Package types defines core data structures for the trellis planning tree.
package types

import (
	"fmt"
	"time"
)

// Object represents one node in the planning tree: a project, epic, feature,
// or task. All four kinds share this structural shape; kind-specific rules
// live in Validate.
type Object struct {
	Kind          Kind      `yaml:"kind" json:"kind"`
	ID            string    `yaml:"id" json:"id"`
	Parent        string    `yaml:"parent,omitempty" json:"parent,omitempty"`
	Status        Status    `yaml:"status" json:"status"`
	Priority      Priority  `yaml:"priority" json:"priority"`
	Title         string    `yaml:"title" json:"title"`
	Prerequisites []string  `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Worktree      string    `yaml:"worktree,omitempty" json:"worktree,omitempty"`
	Created       time.Time `yaml:"created" json:"created"`
	Updated       time.Time `yaml:"updated" json:"updated"`
	SchemaVersion string    `yaml:"schema_version,omitempty" json:"schema_version,omitempty"`
}

// SchemaVersion is the current object file schema version.
const SchemaVersion = "1.1"

// Kind identifies which level of the tree an object belongs to.
type Kind string

// Object kind constants
const (
	KindProject Kind = "project"
	KindEpic    Kind = "epic"
	KindFeature Kind = "feature"
	KindTask    Kind = "task"
)

// IsValid checks if the kind value is one of the four recognized kinds.
// The match is exact: lowercase singular only.
func (k Kind) IsValid() bool {
	switch k {
	case KindProject, KindEpic, KindFeature, KindTask:
		return true
	}
	return false
}

// ParentKind returns the kind an object's parent must have.
// Projects and standalone tasks have no parent; both cases return
// mayBeEmpty=true.
func (k Kind) ParentKind() (parent Kind, mayBeEmpty bool) {
	switch k {
	case KindProject:
		return "", true
	case KindEpic:
		return KindProject, false
	case KindFeature:
		return KindEpic, false
	case KindTask:
		return KindFeature, true // standalone tasks have no feature parent
	}
	return "", false
}

// Status represents the lifecycle state of an object.
type Status string

// Lifecycle status constants
const (
	StatusDraft      Status = "draft"
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// IsValid checks if the status value is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that move a task into tasks-done.
func (s Status) IsTerminal() bool {
	return s == StatusDone
}

// transitions is the legal status transition table. Completion and claiming
// are both expressed here; nothing moves out of done.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusOpen},
	StatusOpen:       {StatusInProgress},
	StatusInProgress: {StatusReview, StatusDone, StatusOpen},
	StatusReview:     {StatusDone, StatusInProgress},
	StatusDone:       {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CompletableStatuses are the source statuses from which a task may be
// completed. Kept as a slice so error messages can name them in order.
var CompletableStatuses = []Status{StatusInProgress, StatusReview}

// CanComplete returns true if a task in this status may transition to done.
func (s Status) CanComplete() bool {
	for _, ok := range CompletableStatuses {
		if s == ok {
			return true
		}
	}
	return false
}

// Priority orders claimable work. High sorts before normal, normal before low.
type Priority string

// Priority constants
const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// IsValid checks if the priority value is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort rank for a priority (lower sorts first).
// Unknown priorities rank after low so malformed data never jumps the queue.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityNormal:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Validate checks the object's field values and kind-specific parent rules.
func (o *Object) Validate() error {
	if !o.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, string(o.Kind))
	}
	if o.ID == "" {
		return fmt.Errorf("%w: object of kind %s", ErrEmptyID, o.Kind)
	}
	if len(o.Title) == 0 {
		return fmt.Errorf("object %s: title is required", o.ID)
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("object %s: invalid status %q", o.ID, string(o.Status))
	}
	if !o.Priority.IsValid() {
		return fmt.Errorf("object %s: invalid priority %q", o.ID, string(o.Priority))
	}
	parentKind, mayBeEmpty := o.Kind.ParentKind()
	if o.Parent == "" && !mayBeEmpty {
		return fmt.Errorf("object %s: kind %s requires a %s parent", o.ID, o.Kind, parentKind)
	}
	if o.Parent != "" && parentKind == "" {
		return fmt.Errorf("object %s: kind %s cannot have a parent", o.ID, o.Kind)
	}
	// Worktree is only meaningful while a task is claimed.
	if o.Worktree != "" && o.Status != StatusInProgress && o.Status != StatusReview {
		return fmt.Errorf("object %s: worktree set but status is %s", o.ID, o.Status)
	}
	return nil
}

// SetDefaults applies default values for fields omitted in object files:
// status defaults to open, priority to normal, schema_version to current.
func (o *Object) SetDefaults() {
	if o.Status == "" {
		o.Status = StatusOpen
	}
	if o.Priority == "" {
		o.Priority = PriorityNormal
	}
	if o.SchemaVersion == "" {
		o.SchemaVersion = SchemaVersion
	}
}

// IsStandalone returns true for tasks stored outside the project hierarchy.
func (o *Object) IsStandalone() bool {
	return o.Kind == KindTask && o.Parent == ""
}
