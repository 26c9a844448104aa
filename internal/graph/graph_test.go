package graph

import (
	"errors"
	"testing"

	"github.com/trellisdev/trellis/internal/types"
)

func task(id string, status types.Status, prereqs ...string) *types.Object {
	return &types.Object{
		Kind:          types.KindTask,
		ID:            id,
		Status:        status,
		Priority:      types.PriorityNormal,
		Title:         id,
		Prerequisites: prereqs,
	}
}

func objectMap(objs ...*types.Object) map[string]*types.Object {
	m := make(map[string]*types.Object, len(objs))
	for _, o := range objs {
		m[o.ID] = o
	}
	return m
}

func TestHasCycleTwoNodeMutual(t *testing.T) {
	m := objectMap(
		task("a", types.StatusOpen, "b"),
		task("b", types.StatusOpen, "a"),
	)
	if !Build(m).HasCycle() {
		t.Fatalf("two-node mutual reference should be a cycle")
	}
}

func TestHasCycleThreeNodeRing(t *testing.T) {
	m := objectMap(
		task("a", types.StatusOpen, "b"),
		task("b", types.StatusOpen, "c"),
		task("c", types.StatusOpen, "a"),
	)
	g := Build(m)
	if !g.HasCycle() {
		t.Fatalf("three-node ring should be a cycle")
	}
	if cycle := g.FindCycle(); len(cycle) != 3 {
		t.Fatalf("expected 3 cycle members, got %v", cycle)
	}
}

func TestHasCycleSelfLoop(t *testing.T) {
	m := objectMap(task("a", types.StatusOpen, "a"))
	if !Build(m).HasCycle() {
		t.Fatalf("self-loop should be a cycle")
	}
}

func TestNoCycleDAG(t *testing.T) {
	m := objectMap(
		task("a", types.StatusOpen, "b", "c"),
		task("b", types.StatusOpen, "c"),
		task("c", types.StatusOpen),
	)
	if Build(m).HasCycle() {
		t.Fatalf("DAG should not report a cycle")
	}
}

func TestMissingReferenceIsNotCycleEvidence(t *testing.T) {
	m := objectMap(
		task("a", types.StatusOpen, "ghost"),
		task("b", types.StatusOpen, "a"),
	)
	if Build(m).HasCycle() {
		t.Fatalf("orphaned reference should not be a cycle")
	}
}

func TestPrefixedReferencesNormalized(t *testing.T) {
	m := objectMap(
		task("a", types.StatusOpen, "T-b"),
		task("b", types.StatusOpen, "T-a"),
	)
	if !Build(m).HasCycle() {
		t.Fatalf("prefixed references should normalize into a cycle")
	}
}

func TestIsUnblockedNoPrereqs(t *testing.T) {
	a := task("a", types.StatusOpen)
	if !IsUnblocked(a, objectMap(a)) {
		t.Fatalf("task with no prerequisites must be unblocked")
	}
}

func TestIsUnblockedMissingPrereq(t *testing.T) {
	a := task("a", types.StatusOpen, "ghost")
	if IsUnblocked(a, objectMap(a)) {
		t.Fatalf("missing prerequisite must block")
	}
}

func TestIsUnblockedStatuses(t *testing.T) {
	for _, status := range []types.Status{types.StatusDraft, types.StatusOpen, types.StatusInProgress, types.StatusReview} {
		dep := task("dep", status)
		a := task("a", types.StatusOpen, "dep")
		if IsUnblocked(a, objectMap(a, dep)) {
			t.Errorf("prerequisite in status %s must block", status)
		}
	}

	dep := task("dep", types.StatusDone)
	a := task("a", types.StatusOpen, "T-dep")
	if !IsUnblocked(a, objectMap(a, dep)) {
		t.Fatalf("done prerequisite (prefixed ref) should not block")
	}
}

func TestBlocking(t *testing.T) {
	done := task("done-dep", types.StatusDone)
	open := task("open-dep", types.StatusOpen)
	a := task("a", types.StatusOpen, "done-dep", "open-dep", "ghost")
	got := Blocking(a, objectMap(a, done, open))
	if len(got) != 2 {
		t.Fatalf("Blocking = %v, want [open-dep ghost]", got)
	}
}

func TestValidateAcyclic(t *testing.T) {
	ok := objectMap(
		task("a", types.StatusOpen, "b"),
		task("b", types.StatusOpen),
	)
	if err := ValidateAcyclic(ok); err != nil {
		t.Fatalf("acyclic tree rejected: %v", err)
	}

	bad := objectMap(
		task("a", types.StatusOpen, "b"),
		task("b", types.StatusOpen, "a"),
	)
	err := ValidateAcyclic(bad)
	if !errors.Is(err, types.ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}
}
