// Package engine implements the task workflow state machine: claiming the
// next eligible task and completing a claimed one. Every call rescans the
// tree, so decisions are always made against the filesystem source of truth.
package engine

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/trellisdev/trellis/internal/audit"
	"github.com/trellisdev/trellis/internal/graph"
	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/lockfile"
	"github.com/trellisdev/trellis/internal/objfile"
	"github.com/trellisdev/trellis/internal/paths"
	"github.com/trellisdev/trellis/internal/sanitize"
	"github.com/trellisdev/trellis/internal/scanner"
	"github.com/trellisdev/trellis/internal/types"
)

// Engine executes workflow transitions against one planning root.
type Engine struct {
	root  string
	audit *audit.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New returns an engine for the given planning root. The audit logger may
// be nil; transitions then go unrecorded.
func New(root string, log *audit.Logger) *Engine {
	return &Engine{root: root, audit: log, now: time.Now}
}

// ClaimNext selects the highest-priority open, unblocked task, marks it
// in-progress under the given worktree, and rewrites it in place. Ordering:
// priority rank ascending, then created ascending, stable with respect to
// scan order for exact ties.
//
// A per-root advisory lock serializes claims so two workers cannot take the
// same task.
func (e *Engine) ClaimNext(worktree string) (*scanner.Record, error) {
	finish := e.op("claimNext")

	lock, err := lockfile.Acquire(e.root)
	if err != nil {
		finish(err)
		return nil, err
	}
	defer lock.Release()

	rec, err := e.claimNextLocked(worktree)
	finish(err)
	return rec, err
}

func (e *Engine) claimNextLocked(worktree string) (*scanner.Record, error) {
	records, err := scanner.Scan(e.root)
	if err != nil {
		return nil, err
	}
	objects := scanner.Objects(records)

	tasks, err := scanner.ScanTasks(e.root)
	if err != nil {
		return nil, err
	}

	var open, claimable []*scanner.Record
	for _, rec := range tasks {
		if rec.Status != types.StatusOpen {
			continue
		}
		open = append(open, rec)
		if graph.IsUnblocked(rec.Object, objects) {
			claimable = append(claimable, rec)
		}
	}

	if len(claimable) == 0 {
		if len(open) == 0 {
			return nil, fmt.Errorf("%w: no open tasks in the tree", types.ErrNoTaskAvailable)
		}
		return nil, fmt.Errorf("%w: %d open task(s) exist but all are blocked by incomplete prerequisites",
			types.ErrNoTaskAvailable, len(open))
	}

	// Priority dominates; within equal priority the earliest created wins.
	// SliceStable preserves scan order for exact ties.
	sort.SliceStable(claimable, func(i, j int) bool {
		a, b := claimable[i], claimable[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.Created.Before(b.Created)
	})

	chosen := claimable[0]
	chosen.Status = types.StatusInProgress
	chosen.Worktree = worktree
	chosen.Updated = e.now().UTC()

	if err := objfile.Write(chosen.Path, chosen.Object, chosen.Body); err != nil {
		return nil, fmt.Errorf("claiming task %s: %w", chosen.ID, err)
	}

	e.log("info", "task claimed", map[string]any{
		"task":     chosen.ID,
		"worktree": sanitize.ForDisplay(worktree),
		"priority": string(chosen.Priority),
	})
	return chosen, nil
}

// Complete transitions a task to done: validates the source status and
// prerequisites, appends a completion log entry to the body, writes the new
// tasks-done file, and only then deletes the original. Write-before-delete
// is the crash-safety invariant; a failure mid-way leaves the task
// recoverable in tasks-open.
func (e *Engine) Complete(taskID, summary string, filesChanged []string) (*types.Object, string, error) {
	finish := e.op("completeTask")

	lock, err := lockfile.Acquire(e.root)
	if err != nil {
		finish(err)
		return nil, "", err
	}
	defer lock.Release()

	obj, donePath, err := e.completeLocked(taskID, summary, filesChanged)
	finish(err)
	return obj, donePath, err
}

func (e *Engine) completeLocked(taskID, summary string, filesChanged []string) (*types.Object, string, error) {
	id, err := ids.Normalize(taskID, types.KindTask)
	if err != nil {
		return nil, "", err
	}

	openPath, err := paths.IDToPath(e.root, types.KindTask, id)
	if err != nil {
		return nil, "", err
	}

	// Direct lookup: a parse failure here is a hard error, not a skip.
	task, body, err := objfile.Parse(openPath)
	if err != nil {
		return nil, "", err
	}

	if !task.Status.CanComplete() {
		return nil, "", fmt.Errorf("%w: task %s has status %q; completion requires one of %v",
			types.ErrInvalidStatusForCompletion, id, string(task.Status), types.CompletableStatuses)
	}

	records, err := scanner.Scan(e.root)
	if err != nil {
		return nil, "", err
	}
	objects := scanner.Objects(records)

	if !graph.IsUnblocked(task, objects) {
		return nil, "", fmt.Errorf("%w: task %s has prerequisites that are not yet done: %v",
			types.ErrPrerequisitesNotComplete, id, graph.Blocking(task, objects))
	}

	completedAt := e.now().UTC()
	task.Status = types.StatusDone
	task.Worktree = ""
	task.Updated = completedAt
	body = objfile.AppendLogEntry(body, completedAt, summary, filesChanged)

	donePath := paths.DonePath(openPath, id, completedAt)
	if err := objfile.Write(donePath, task, body); err != nil {
		return nil, "", fmt.Errorf("writing completed task %s: %w", id, err)
	}
	if err := os.Remove(openPath); err != nil {
		return nil, "", fmt.Errorf("removing open copy of task %s: %w", id, err)
	}

	e.log("info", "task completed", map[string]any{
		"task":    id,
		"summary": sanitize.ForDisplay(summary),
		"files":   len(filesChanged),
	})

	if task.Parent != "" {
		if err := e.recomputeFeatureStatus(task.Parent); err != nil {
			// The completion itself succeeded; surface the rollup failure
			// in the audit log rather than failing the call.
			e.log("error", "feature status recompute failed", map[string]any{
				"feature": task.Parent, "error": err.Error(),
			})
		}
	}

	return task, donePath, nil
}

// recomputeFeatureStatus rolls sibling task states up into the parent
// feature: all tasks done means the feature is done, any task started means
// in-progress. Draft/open-only features are left alone.
func (e *Engine) recomputeFeatureStatus(featureID string) error {
	featurePath, err := paths.IDToPath(e.root, types.KindFeature, featureID)
	if err != nil {
		return err
	}
	feature, body, err := objfile.Parse(featurePath)
	if err != nil {
		return err
	}

	tasks, err := scanner.ScanTasks(e.root)
	if err != nil {
		return err
	}

	total, done, started := 0, 0, 0
	for _, rec := range tasks {
		if rec.Parent != featureID {
			continue
		}
		total++
		switch rec.Status {
		case types.StatusDone:
			done++
			started++
		case types.StatusInProgress, types.StatusReview:
			started++
		}
	}
	if total == 0 {
		return nil
	}

	next := feature.Status
	switch {
	case done == total:
		next = types.StatusDone
	case started > 0:
		next = types.StatusInProgress
	}
	if next == feature.Status {
		return nil
	}

	feature.Status = next
	feature.Updated = e.now().UTC()
	if err := objfile.Write(featurePath, feature, body); err != nil {
		return err
	}
	e.log("info", "feature status recomputed", map[string]any{
		"feature": featureID, "status": string(next),
	})
	return nil
}

func (e *Engine) op(method string) func(error) {
	if e.audit == nil {
		return func(error) {}
	}
	return e.audit.Op(method)
}

func (e *Engine) log(level, msg string, fields map[string]any) {
	if e.audit == nil {
		return
	}
	_ = e.audit.Event(level, msg, fields)
}
