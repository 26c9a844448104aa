// Package scanner walks the planning tree and loads every object into memory.
// Each call is one full pass over disk; nothing is cached between calls, so
// results always match the filesystem.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/trellisdev/trellis/internal/debug"
	"github.com/trellisdev/trellis/internal/objfile"
	"github.com/trellisdev/trellis/internal/paths"
	"github.com/trellisdev/trellis/internal/types"
)

// Record pairs a loaded object with its file location and free-text body.
type Record struct {
	*types.Object
	Path string
	Body string
}

// Scan loads every object in the tree into a map keyed by normalized id.
// Files that fail structural parsing are logged and skipped; one bad file
// never aborts the walk. Projects are loaded in parallel.
func Scan(root string) (map[string]*Record, error) {
	var (
		mu      sync.Mutex
		records = make(map[string]*Record)
	)
	// Ids are unique within a kind, but the map spans kinds because
	// prerequisite refs carry no kind. On a cross-kind collision the record
	// with the lexicographically smallest path wins, so the survivor does
	// not depend on goroutine scheduling.
	add := func(rec *Record) {
		mu.Lock()
		defer mu.Unlock()
		if prev, ok := records[rec.ID]; ok {
			if rec.Path >= prev.Path {
				debug.Logf("scan: duplicate id %s at %s (keeping %s)\n", rec.ID, rec.Path, prev.Path)
				return
			}
			debug.Logf("scan: duplicate id %s at %s (replacing %s)\n", rec.ID, rec.Path, prev.Path)
		}
		records[rec.ID] = rec
	}

	projectDirs, err := doublestar.FilepathGlob(filepath.Join(root, paths.ProjectsDir, "*"))
	if err != nil {
		return nil, err
	}

	var g errgroup.Group
	for _, dir := range projectDirs {
		g.Go(func() error {
			scanProject(root, dir, add)
			return nil
		})
	}
	g.Go(func() error {
		scanTaskDirs(root, root, add)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// Objects projects a record map down to the object map the dependency graph
// consumes.
func Objects(records map[string]*Record) map[string]*types.Object {
	objects := make(map[string]*types.Object, len(records))
	for id, rec := range records {
		objects[id] = rec.Object
	}
	return objects
}

// ScanTasks loads only task records, hierarchical and standalone, in
// deterministic path order. One pass per call.
func ScanTasks(root string) ([]*Record, error) {
	patterns := []string{
		filepath.Join(root, paths.ProjectsDir, "*", paths.EpicsDir, "*", paths.FeaturesDir, "*", paths.TasksOpenDir, "*.md"),
		filepath.Join(root, paths.ProjectsDir, "*", paths.EpicsDir, "*", paths.FeaturesDir, "*", paths.TasksDoneDir, "*.md"),
		filepath.Join(root, paths.TasksOpenDir, "*.md"),
		filepath.Join(root, paths.TasksDoneDir, "*.md"),
	}

	var tasks []*Record
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		for _, path := range matches {
			rec := loadObjectFile(root, path)
			if rec == nil || rec.Kind != types.KindTask {
				continue
			}
			tasks = append(tasks, rec)
		}
	}
	return tasks, nil
}

// scanProject loads the project file plus its epics, features, and tasks.
func scanProject(root, projectDir string, add func(*Record)) {
	if rec := loadObjectFile(root, filepath.Join(projectDir, "project.md")); rec != nil {
		add(rec)
	}

	epicFiles, _ := doublestar.FilepathGlob(filepath.Join(projectDir, paths.EpicsDir, "*", "epic.md"))
	for _, path := range epicFiles {
		if rec := loadObjectFile(root, path); rec != nil {
			add(rec)
		}
	}

	featureFiles, _ := doublestar.FilepathGlob(filepath.Join(projectDir, paths.EpicsDir, "*", paths.FeaturesDir, "*", "feature.md"))
	for _, path := range featureFiles {
		if rec := loadObjectFile(root, path); rec != nil {
			add(rec)
		}
		scanTaskDirs(root, filepath.Dir(path), add)
	}
}

// scanTaskDirs loads tasks-open and tasks-done beneath one container
// directory (a feature dir, or the root for standalone tasks).
func scanTaskDirs(root, containerDir string, add func(*Record)) {
	for _, sub := range []string{paths.TasksOpenDir, paths.TasksDoneDir} {
		dir := filepath.Join(containerDir, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				// Subdirectories inside a tasks directory are not objects.
				continue
			}
			if !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			if rec := loadObjectFile(root, filepath.Join(dir, entry.Name())); rec != nil {
				add(rec)
			}
		}
	}
}

// loadObjectFile parses one object file, returning nil for anything that
// should be skipped: missing files, symlinks escaping the scan root, and
// files with malformed front-matter.
func loadObjectFile(root, path string) *Record {
	info, err := os.Lstat(path)
	if err != nil {
		return nil
	}
	if info.Mode()&os.ModeSymlink != 0 && !symlinkInsideRoot(root, path) {
		debug.Logf("scan: skipping symlink escaping root: %s\n", path)
		return nil
	}

	obj, body, err := objfile.Parse(path)
	if err != nil {
		debug.Logf("scan: skipping unparseable file %s: %v\n", path, err)
		return nil
	}
	return &Record{Object: obj, Path: path, Body: body}
}

// symlinkInsideRoot reports whether a symlink resolves to a location still
// under the scan root. Path-traversal defense for hostile trees.
func symlinkInsideRoot(root, path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
