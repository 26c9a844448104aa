package types

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validTask() *Object {
	now := time.Now().UTC()
	return &Object{
		Kind:     KindTask,
		ID:       "wire-codec",
		Parent:   "transport",
		Status:   StatusOpen,
		Priority: PriorityNormal,
		Title:    "Wire up the codec",
		Created:  now,
		Updated:  now,
	}
}

func TestKindIsValid(t *testing.T) {
	for _, k := range []Kind{KindProject, KindEpic, KindFeature, KindTask} {
		if !k.IsValid() {
			t.Errorf("kind %q should be valid", k)
		}
	}
	// Exact lowercase singular match only.
	for _, k := range []Kind{"Task", "tasks", "TASK", "", "milestone"} {
		if k.IsValid() {
			t.Errorf("kind %q should be invalid", k)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusOpen, true},
		{StatusOpen, StatusInProgress, true},
		{StatusInProgress, StatusReview, true},
		{StatusInProgress, StatusDone, true},
		{StatusReview, StatusDone, true},
		{StatusReview, StatusInProgress, true},
		{StatusOpen, StatusDone, false},
		{StatusDraft, StatusDone, false},
		{StatusDone, StatusOpen, false},
		{StatusDone, StatusInProgress, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanComplete(t *testing.T) {
	if !StatusInProgress.CanComplete() || !StatusReview.CanComplete() {
		t.Fatalf("in-progress and review must be completable")
	}
	for _, s := range []Status{StatusDraft, StatusOpen, StatusDone} {
		if s.CanComplete() {
			t.Errorf("status %s should not be completable", s)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityNormal.Rank() && PriorityNormal.Rank() < PriorityLow.Rank()) {
		t.Fatalf("priority rank ordering broken: high=%d normal=%d low=%d",
			PriorityHigh.Rank(), PriorityNormal.Rank(), PriorityLow.Rank())
	}
	if Priority("urgent").Rank() <= PriorityLow.Rank() {
		t.Fatalf("unknown priority must rank after low")
	}
}

func TestValidateParentRules(t *testing.T) {
	obj := validTask()
	if err := obj.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	// Standalone task: no parent is fine.
	obj.Parent = ""
	if err := obj.Validate(); err != nil {
		t.Fatalf("standalone task rejected: %v", err)
	}
	if !obj.IsStandalone() {
		t.Fatalf("task without parent should be standalone")
	}

	// Epics require a project parent.
	epic := validTask()
	epic.Kind = KindEpic
	epic.Parent = ""
	if err := epic.Validate(); err == nil {
		t.Fatalf("epic without parent should be rejected")
	}

	// Projects cannot have a parent.
	proj := validTask()
	proj.Kind = KindProject
	proj.Parent = "something"
	if err := proj.Validate(); err == nil {
		t.Fatalf("project with parent should be rejected")
	}
}

func TestValidateWorktreeInvariant(t *testing.T) {
	obj := validTask()
	obj.Worktree = "wt-1"
	if err := obj.Validate(); err == nil {
		t.Fatalf("worktree on open task should be rejected")
	}
	obj.Status = StatusInProgress
	if err := obj.Validate(); err != nil {
		t.Fatalf("worktree on in-progress task rejected: %v", err)
	}
	obj.Status = StatusReview
	if err := obj.Validate(); err != nil {
		t.Fatalf("worktree on review task rejected: %v", err)
	}
}

func TestValidateInvalidKindError(t *testing.T) {
	obj := validTask()
	obj.Kind = "Task"
	err := obj.Validate()
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if !strings.Contains(err.Error(), "Task") {
		t.Fatalf("error should name the offending kind: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	obj := &Object{Kind: KindTask, ID: "x", Title: "x"}
	obj.SetDefaults()
	if obj.Status != StatusOpen {
		t.Errorf("default status = %s, want open", obj.Status)
	}
	if obj.Priority != PriorityNormal {
		t.Errorf("default priority = %s, want normal", obj.Priority)
	}
	if obj.SchemaVersion != SchemaVersion {
		t.Errorf("default schema_version = %s, want %s", obj.SchemaVersion, SchemaVersion)
	}
}
