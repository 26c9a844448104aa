package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/trellisdev/trellis/internal/graph"
	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/lockfile"
	"github.com/trellisdev/trellis/internal/objfile"
	"github.com/trellisdev/trellis/internal/paths"
	"github.com/trellisdev/trellis/internal/sanitize"
	"github.com/trellisdev/trellis/internal/scanner"
	"github.com/trellisdev/trellis/internal/types"
)

// CreateRequest describes a new object. The id is derived by normalizing
// the title, so "Fix login flow" becomes task id "fix-login-flow".
type CreateRequest struct {
	Kind          types.Kind
	Title         string
	Parent        string
	Priority      types.Priority
	Prerequisites []string
	Body          string
}

// Create materializes a new object file under the root. Prerequisite refs
// are normalized, the parent chain is resolved to place the file, and the
// combined graph is checked for cycles before anything is written.
func (e *Engine) Create(req CreateRequest) (*types.Object, string, error) {
	finish := e.op("create")

	lock, err := lockfile.Acquire(e.root)
	if err != nil {
		finish(err)
		return nil, "", err
	}
	defer lock.Release()

	obj, path, err := e.createLocked(req)
	finish(err)
	return obj, path, err
}

func (e *Engine) createLocked(req CreateRequest) (*types.Object, string, error) {
	id, err := ids.Normalize(req.Title, req.Kind)
	if err != nil {
		return nil, "", err
	}
	if err := paths.ValidateID(id, req.Kind); err != nil {
		return nil, "", err
	}

	parent := ""
	if req.Parent != "" {
		parentKind, _ := req.Kind.ParentKind()
		parent, err = ids.Normalize(req.Parent, parentKind)
		if err != nil {
			return nil, "", err
		}
	}

	prereqs := make([]string, 0, len(req.Prerequisites))
	for _, ref := range req.Prerequisites {
		if norm := ids.NormalizeRef(ref); norm != "" {
			prereqs = append(prereqs, norm)
		}
	}
	if len(prereqs) == 0 {
		prereqs = nil
	}

	now := e.now().UTC()
	obj := &types.Object{
		Kind:          req.Kind,
		ID:            id,
		Parent:        parent,
		Priority:      req.Priority,
		Title:         req.Title,
		Prerequisites: prereqs,
		Created:       now,
		Updated:       now,
	}
	obj.SetDefaults()
	if err := obj.Validate(); err != nil {
		return nil, "", err
	}

	path, err := paths.ResolveNewObjectPath(e.root, req.Kind, id, parent, obj.Status)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Lstat(path); err == nil {
		return nil, "", fmt.Errorf("%s %s already exists at %s",
			string(req.Kind), ids.Display(id, req.Kind), filepath.Base(path))
	}

	if len(prereqs) > 0 {
		records, err := scanner.Scan(e.root)
		if err != nil {
			return nil, "", err
		}
		objects := scanner.Objects(records)
		objects[id] = obj
		if err := graph.ValidateAcyclic(objects); err != nil {
			return nil, "", err
		}
	}

	if err := objfile.Write(path, obj, req.Body); err != nil {
		return nil, "", fmt.Errorf("creating %s %s: %w", string(req.Kind), id, err)
	}

	e.log("info", "object created", map[string]any{
		"kind":  string(req.Kind),
		"id":    id,
		"title": sanitize.ForDisplay(req.Title),
	})
	return obj, path, nil
}

// Get resolves a prefixed reference ("T-fix-login", "F-auth") to its object.
// The body and resolved path come back alongside the frontmatter.
func (e *Engine) Get(ref string) (*types.Object, string, string, error) {
	kind := ids.KindOf(ref)
	id, err := ids.Normalize(ref, kind)
	if err != nil {
		return nil, "", "", err
	}
	path, err := paths.IDToPath(e.root, kind, id)
	if err != nil {
		return nil, "", "", err
	}
	obj, body, err := objfile.Parse(path)
	if err != nil {
		return nil, "", "", err
	}
	return obj, body, path, nil
}
