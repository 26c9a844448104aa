package types

import "errors"

// Sentinel errors for the resolution and workflow engine. Callers branch on
// these with errors.Is; messages wrapped around them carry the offending id
// and the rule violated.
var (
	// ErrInvalidKind indicates a kind outside project|epic|feature|task.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrEmptyID indicates an empty or whitespace-only identifier.
	ErrEmptyID = errors.New("empty id")

	// ErrInvalidID indicates an identifier that fails charset, length, or
	// path-security checks.
	ErrInvalidID = errors.New("invalid id")

	// ErrNotFound indicates no object exists at any valid location for the id.
	ErrNotFound = errors.New("object not found")

	// ErrInvalidStatusForCompletion indicates a completion attempt from a
	// status other than in-progress or review.
	ErrInvalidStatusForCompletion = errors.New("invalid status for completion")

	// ErrPrerequisitesNotComplete indicates a completion attempt while one or
	// more prerequisites are not yet done.
	ErrPrerequisitesNotComplete = errors.New("prerequisites not complete")

	// ErrCircularDependency indicates a cycle in the prerequisite graph.
	// This is structural corruption of the tree, not a single-object defect.
	ErrCircularDependency = errors.New("circular dependency")

	// ErrNoTaskAvailable indicates claimNext found no open, unblocked task.
	ErrNoTaskAvailable = errors.New("no task available")

	// ErrParse indicates a malformed object file. Scans skip these; direct
	// lookups surface them.
	ErrParse = errors.New("parse error")
)
