package objfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trellisdev/trellis/internal/types"
)

func TestWriteParseRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "T-roundtrip.md")

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	obj := &types.Object{
		Kind:          types.KindTask,
		ID:            "roundtrip",
		Parent:        "login",
		Status:        types.StatusOpen,
		Priority:      types.PriorityHigh,
		Title:         "Round trip",
		Prerequisites: []string{"setup-db", "schema"},
		Created:       created,
		Updated:       created,
		SchemaVersion: types.SchemaVersion,
	}
	body := "Implement the round trip.\n"

	if err := Write(path, obj, body); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, gotBody, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.ID != "roundtrip" || got.Parent != "login" || got.Title != "Round trip" {
		t.Fatalf("fields lost in round trip: %+v", got)
	}
	if len(got.Prerequisites) != 2 || got.Prerequisites[0] != "setup-db" {
		t.Fatalf("prerequisites lost: %v", got.Prerequisites)
	}
	if !got.Created.Equal(created) {
		t.Fatalf("created = %v, want %v", got.Created, created)
	}
	if gotBody != body {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestRepeatedRewritesPreserveBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "T-stable.md")
	body := "Body line.\n\nSecond paragraph.\n"

	obj := &types.Object{Kind: types.KindTask, ID: "stable", Status: types.StatusOpen, Priority: types.PriorityNormal, Title: "Stable"}
	if err := Write(path, obj, body); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Claim and complete rewrite files in place; the body must come back
	// byte-identical however many times it cycles through Parse and Write.
	for i := 0; i < 3; i++ {
		got, gotBody, err := Parse(path)
		if err != nil {
			t.Fatalf("cycle %d Parse: %v", i, err)
		}
		if gotBody != body {
			t.Fatalf("cycle %d body = %q, want %q", i, gotBody, body)
		}
		if err := Write(path, got, gotBody); err != nil {
			t.Fatalf("cycle %d Write: %v", i, err)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no-frontmatter.md":  "just text\n",
		"unterminated.md":    "---\nkind: task\n",
		"invalid-yaml.md":    "---\nkind: [unclosed\n---\n",
		"tab-indent-yaml.md": "---\n\tkind: task\n---\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, _, err := Parse(path)
		if !errors.Is(err, types.ErrParse) {
			t.Errorf("%s: expected ErrParse, got %v", name, err)
		}
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "T-min.md")
	content := "---\nkind: task\nid: min\ntitle: Minimal\n---\nbody\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	obj, _, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if obj.Status != types.StatusOpen || obj.Priority != types.PriorityNormal {
		t.Fatalf("defaults not applied: status=%s priority=%s", obj.Status, obj.Priority)
	}
}

func TestDecodeCRLF(t *testing.T) {
	content := "---\r\nkind: task\r\nid: win\r\ntitle: Windows\r\n---\r\nbody\r\n"
	obj, body, err := Decode([]byte(content), "win.md")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if obj.ID != "win" {
		t.Fatalf("id = %q", obj.ID)
	}
	if !strings.Contains(body, "body") {
		t.Fatalf("body = %q", body)
	}
}

func TestAppendLogEntry(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 30, 45, 123456000, time.UTC)

	got := AppendLogEntry("Task body.", at, "Wired the codec", []string{"a.go", "b/c.go"})
	if !strings.Contains(got, "### Log") {
		t.Fatalf("missing log heading:\n%s", got)
	}
	if !strings.Contains(got, "**2025-06-01T12:30:45.123456Z** Wired the codec") {
		t.Fatalf("missing timestamped summary:\n%s", got)
	}
	if !strings.Contains(got, `Files changed: ["a.go","b/c.go"]`) {
		t.Fatalf("missing file list:\n%s", got)
	}

	// A second entry reuses the existing heading.
	got = AppendLogEntry(got, at.Add(time.Minute), "Follow-up", nil)
	if strings.Count(got, "### Log") != 1 {
		t.Fatalf("log heading duplicated:\n%s", got)
	}
	if !strings.Contains(got, "Files changed: []") {
		t.Fatalf("nil file list should render empty array:\n%s", got)
	}
}
