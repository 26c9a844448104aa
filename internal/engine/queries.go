package engine

import (
	"fmt"
	"sort"

	"github.com/trellisdev/trellis/internal/graph"
	"github.com/trellisdev/trellis/internal/scanner"
	"github.com/trellisdev/trellis/internal/types"
)

// BlockedTask pairs a task with the prerequisite ids holding it back.
type BlockedTask struct {
	*scanner.Record
	Blocking []string
}

// Ready returns the open, unblocked tasks in claim order. The head of the
// returned slice is what ClaimNext would take.
func (e *Engine) Ready() ([]*scanner.Record, error) {
	records, err := scanner.Scan(e.root)
	if err != nil {
		return nil, err
	}
	objects := scanner.Objects(records)

	tasks, err := scanner.ScanTasks(e.root)
	if err != nil {
		return nil, err
	}

	var ready []*scanner.Record
	for _, rec := range tasks {
		if rec.Status == types.StatusOpen && graph.IsUnblocked(rec.Object, objects) {
			ready = append(ready, rec)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		a, b := ready[i], ready[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.Created.Before(b.Created)
	})
	return ready, nil
}

// Blocked returns open tasks that cannot be claimed, with the prerequisites
// blocking each.
func (e *Engine) Blocked() ([]*BlockedTask, error) {
	records, err := scanner.Scan(e.root)
	if err != nil {
		return nil, err
	}
	objects := scanner.Objects(records)

	tasks, err := scanner.ScanTasks(e.root)
	if err != nil {
		return nil, err
	}

	var blocked []*BlockedTask
	for _, rec := range tasks {
		if rec.Status != types.StatusOpen {
			continue
		}
		if blocking := graph.Blocking(rec.Object, objects); len(blocking) > 0 {
			blocked = append(blocked, &BlockedTask{Record: rec, Blocking: blocking})
		}
	}
	return blocked, nil
}

// Validate checks structural integrity of the whole tree: object-level
// field rules, parent references, and prerequisite acyclicity.
func (e *Engine) Validate() error {
	records, err := scanner.Scan(e.root)
	if err != nil {
		return err
	}
	objects := scanner.Objects(records)

	for _, obj := range objects {
		if err := obj.Validate(); err != nil {
			return err
		}
		if err := validateParentRef(obj, objects); err != nil {
			return err
		}
	}
	return graph.ValidateAcyclic(objects)
}

// validateParentRef checks that a non-empty parent names an object that is
// actually in the tree and has the kind the hierarchy demands, so an epic
// cannot point at a ghost or at another epic.
func validateParentRef(obj *types.Object, objects map[string]*types.Object) error {
	if obj.Parent == "" {
		return nil
	}
	parentKind, _ := obj.Kind.ParentKind()
	parent, ok := objects[obj.Parent]
	if !ok {
		return fmt.Errorf("%w: object %s references parent %s %q which does not exist",
			types.ErrNotFound, obj.ID, parentKind, obj.Parent)
	}
	if parent.Kind != parentKind {
		return fmt.Errorf("object %s: parent %q is a %s, expected a %s",
			obj.ID, obj.Parent, parent.Kind, parentKind)
	}
	return nil
}
