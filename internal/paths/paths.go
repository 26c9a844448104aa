// Package paths maps logical object identity to filesystem locations inside
// the planning tree. Tasks live in one of two directories depending on
// lifecycle state: tasks-open while workable, tasks-done once completed.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/types"
)

// Subdirectory names of the planning tree. The layout is authoritative:
//
//	<root>/projects/P-<id>/project.md
//	<root>/projects/P-<id>/epics/E-<id>/epic.md
//	.../features/F-<id>/feature.md
//	.../tasks-open/T-<id>.md
//	.../tasks-done/<YYYYMMDD_HHMMSS>-T-<id>.md
//	<root>/tasks-open, <root>/tasks-done   (standalone tasks)
const (
	ProjectsDir  = "projects"
	EpicsDir     = "epics"
	FeaturesDir  = "features"
	TasksOpenDir = "tasks-open"
	TasksDoneDir = "tasks-done"
)

// DoneStampLayout is the timestamp prefix format for completed task files.
const DoneStampLayout = "20060102_150405"

// reservedTaskNames are device names rejected as task ids. A task file named
// con.md or nul.md is unopenable on Windows checkouts of the tree.
var reservedTaskNames = map[string]bool{
	"con": true, "prn": true, "aux": true, "nul": true,
	"com1": true, "lpt1": true,
}

// maxIDLength bounds id length so the generated filename stays within
// common filesystem limits.
const maxIDLength = 255

// ValidateID applies the charset, length, and path-security checks shared by
// lookups and new-object placement. Check order is part of the contract:
// empty fires before kind validity, which fires before charset/security,
// which fires before existence. Kind is checked by the callers; this function
// covers the rest.
func ValidateID(id string, kind types.Kind) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id", types.ErrEmptyID, kind)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: %s id exceeds %d characters", types.ErrInvalidID, kind, maxIDLength)
	}
	if strings.ContainsAny(id, "/\\") {
		return fmt.Errorf("%w: %s id contains a path separator", types.ErrInvalidID, kind)
	}
	if strings.Contains(id, "..") {
		return fmt.Errorf("%w: %s id contains a traversal sequence", types.ErrInvalidID, kind)
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %s id contains a control character", types.ErrInvalidID, kind)
		}
	}
	if kind == types.KindTask && reservedTaskNames[strings.ToLower(id)] {
		return fmt.Errorf("%w: %q is a reserved device name", types.ErrInvalidID, id)
	}
	return nil
}

// IDToPath resolves an existing object's file location. Tasks are searched in
// tasks-open first, then tasks-done; an open file wins when both exist.
func IDToPath(root string, kind types.Kind, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: %s id", types.ErrEmptyID, kind)
	}
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidKind, string(kind))
	}
	if err := ValidateID(id, kind); err != nil {
		return "", err
	}

	switch kind {
	case types.KindProject:
		path := filepath.Join(root, ProjectsDir, "P-"+id, "project.md")
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: project %s", types.ErrNotFound, id)
		}
		return path, nil

	case types.KindEpic:
		pattern := filepath.Join(root, ProjectsDir, "*", EpicsDir, "E-"+id, "epic.md")
		if match := firstMatch(pattern); match != "" {
			return match, nil
		}
		return "", fmt.Errorf("%w: epic %s in any project", types.ErrNotFound, id)

	case types.KindFeature:
		pattern := filepath.Join(root, ProjectsDir, "*", EpicsDir, "*", FeaturesDir, "F-"+id, "feature.md")
		if match := firstMatch(pattern); match != "" {
			return match, nil
		}
		return "", fmt.Errorf("%w: feature %s in any epic", types.ErrNotFound, id)

	case types.KindTask:
		return taskPath(root, id)
	}

	return "", fmt.Errorf("%w: %q", types.ErrInvalidKind, string(kind))
}

// taskPath searches every feature plus the standalone directories. Open
// files take precedence over done files for the same id; the two coexisting
// should not normally happen.
func taskPath(root, id string) (string, error) {
	featureGlob := filepath.Join(root, ProjectsDir, "*", EpicsDir, "*", FeaturesDir, "*")

	openPatterns := []string{
		filepath.Join(featureGlob, TasksOpenDir, "T-"+id+".md"),
		filepath.Join(root, TasksOpenDir, "T-"+id+".md"),
	}
	for _, pattern := range openPatterns {
		if match := firstMatch(pattern); match != "" {
			return match, nil
		}
	}

	donePatterns := []string{
		filepath.Join(featureGlob, TasksDoneDir, "*-T-"+id+".md"),
		filepath.Join(root, TasksDoneDir, "*-T-"+id+".md"),
	}
	for _, pattern := range donePatterns {
		if match := firstMatch(pattern); match != "" {
			return match, nil
		}
	}

	return "", fmt.Errorf("%w: task %s in any feature or standalone location", types.ErrNotFound, id)
}

// ResolveNewObjectPath computes the location for an object that does not
// exist yet, deriving the directory chain from parent references. New tasks
// land in tasks-open unless status is terminal, in which case the file gets a
// done-timestamp prefix.
func ResolveNewObjectPath(root string, kind types.Kind, id, parent string, status types.Status) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: %s id", types.ErrEmptyID, kind)
	}
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidKind, string(kind))
	}
	if err := ValidateID(id, kind); err != nil {
		return "", err
	}
	if status != "" && !status.IsValid() {
		return "", fmt.Errorf("invalid status %q", string(status))
	}
	if strings.Contains(string(status), "..") {
		return "", fmt.Errorf("%w: status contains a traversal sequence", types.ErrInvalidID)
	}

	switch kind {
	case types.KindProject:
		return filepath.Join(root, ProjectsDir, "P-"+id, "project.md"), nil

	case types.KindEpic:
		projectPath, err := IDToPath(root, types.KindProject, parent)
		if err != nil {
			return "", fmt.Errorf("resolving parent project %s: %w", parent, err)
		}
		return filepath.Join(filepath.Dir(projectPath), EpicsDir, "E-"+id, "epic.md"), nil

	case types.KindFeature:
		epicPath, err := IDToPath(root, types.KindEpic, parent)
		if err != nil {
			return "", fmt.Errorf("resolving parent epic %s: %w", parent, err)
		}
		return filepath.Join(filepath.Dir(epicPath), FeaturesDir, "F-"+id, "feature.md"), nil

	case types.KindTask:
		baseDir := root
		if parent != "" {
			featurePath, err := IDToPath(root, types.KindFeature, parent)
			if err != nil {
				return "", fmt.Errorf("resolving parent feature %s: %w", parent, err)
			}
			baseDir = filepath.Dir(featurePath)
		}
		if status.IsTerminal() {
			stamp := time.Now().UTC().Format(DoneStampLayout)
			return filepath.Join(baseDir, TasksDoneDir, stamp+"-T-"+id+".md"), nil
		}
		return filepath.Join(baseDir, TasksOpenDir, "T-"+id+".md"), nil
	}

	return "", fmt.Errorf("%w: %q", types.ErrInvalidKind, string(kind))
}

// DonePath computes the tasks-done destination for a completing task,
// alongside its current tasks-open location.
func DonePath(openPath, id string, completedAt time.Time) string {
	taskDir := filepath.Dir(openPath)
	stamp := completedAt.UTC().Format(DoneStampLayout)
	return filepath.Join(filepath.Dir(taskDir), TasksDoneDir, stamp+"-T-"+id+".md")
}

// IDFromFilename derives the normalized id from a task filename in either
// lifecycle directory: "T-x.md" and "20250102_030405-T-x.md" both yield "x".
func IDFromFilename(name string) string {
	name = strings.TrimSuffix(name, ".md")
	if idx := strings.Index(name, "T-"); idx >= 0 {
		return ids.NormalizeRef(name[idx:])
	}
	return ids.NormalizeRef(name)
}

// firstMatch runs a glob and returns the lexically first hit, or "".
// Sorting makes resolution deterministic when globs hit multiple projects.
func firstMatch(pattern string) string {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}
