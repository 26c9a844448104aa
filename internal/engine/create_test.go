package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellisdev/trellis/internal/objfile"
	"github.com/trellisdev/trellis/internal/types"
)

func TestCreateStandaloneTask(t *testing.T) {
	f := newFixture(t)

	obj, path, err := f.engine().Create(CreateRequest{
		Kind:     types.KindTask,
		Title:    "Fix Login Flow",
		Priority: types.PriorityHigh,
		Body:     "## Notes\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "fix-login-flow", obj.ID)
	assert.Equal(t, types.StatusOpen, obj.Status)
	assert.Equal(t, filepath.Join(f.root, "tasks-open", "T-fix-login-flow.md"), path)

	onDisk, body, err := objfile.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Fix Login Flow", onDisk.Title)
	assert.Equal(t, "## Notes\n", body)
}

func TestCreateTaskUnderFeature(t *testing.T) {
	f := newFixture(t)

	obj, path, err := f.engine().Create(CreateRequest{
		Kind:          types.KindTask,
		Title:         "wire sessions",
		Parent:        "F-login",
		Priority:      types.PriorityNormal,
		Prerequisites: []string{"T-Fix_Login Flow", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "login", obj.Parent)
	assert.Equal(t, []string{"fix-login-flow"}, obj.Prerequisites)
	assert.Equal(t, f.openTaskPath("wire-sessions"), path)
}

func TestCreateRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.task("wire-sessions", types.StatusOpen, types.PriorityNormal, 0)

	_, _, err := f.engine().Create(CreateRequest{
		Kind:   types.KindTask,
		Title:  "Wire Sessions",
		Parent: "login",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.engine().Create(CreateRequest{Kind: types.KindTask, Title: "---"})
	assert.ErrorIs(t, err, types.ErrEmptyID)
}

func TestCreateRejectsCycle(t *testing.T) {
	f := newFixture(t)
	f.task("a", types.StatusOpen, types.PriorityNormal, 0, "new-task")

	_, _, err := f.engine().Create(CreateRequest{
		Kind:          types.KindTask,
		Title:         "New Task",
		Parent:        "login",
		Prerequisites: []string{"a"},
	})
	assert.ErrorIs(t, err, types.ErrCircularDependency)
}

func TestCreateMissingParent(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.engine().Create(CreateRequest{
		Kind:   types.KindTask,
		Title:  "orphan",
		Parent: "no-such-feature",
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetResolvesPrefixedRefs(t *testing.T) {
	f := newFixture(t)
	f.task("wire-sessions", types.StatusOpen, types.PriorityNormal, 0)

	obj, body, path, err := f.engine().Get("T-Wire_Sessions")
	require.NoError(t, err)
	assert.Equal(t, "wire-sessions", obj.ID)
	assert.Equal(t, "body of wire-sessions", body)
	assert.Equal(t, f.openTaskPath("wire-sessions"), path)

	feature, _, _, err := f.engine().Get("F-login")
	require.NoError(t, err)
	assert.Equal(t, types.KindFeature, feature.Kind)

	_, _, _, err = f.engine().Get("T-ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
