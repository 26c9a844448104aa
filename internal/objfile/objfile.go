// Package objfile reads and writes planning objects as markdown files with a
// YAML front-matter block. The front-matter carries the structured fields;
// everything after the closing delimiter is free-text body.
package objfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trellisdev/trellis/internal/types"
)

const delimiter = "---"

// Parse loads an object file. Malformed front-matter is reported as a parse
// error wrapping types.ErrParse so scans can skip and direct lookups can fail.
func Parse(path string) (*types.Object, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return Decode(data, filepath.Base(path))
}

// Decode splits raw file content into front-matter and body and unmarshals
// the object. The name parameter is used only in error messages.
func Decode(data []byte, name string) (*types.Object, string, error) {
	text := string(data)

	// Normalize CRLF so delimiter matching works on Windows checkouts.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if !strings.HasPrefix(text, delimiter+"\n") {
		return nil, "", fmt.Errorf("%w: %s: missing front-matter open delimiter", types.ErrParse, name)
	}
	rest := text[len(delimiter)+1:]
	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return nil, "", fmt.Errorf("%w: %s: unterminated front-matter block", types.ErrParse, name)
	}

	front := rest[:end+1]
	body := rest[end+1+len(delimiter):]
	// Strip the closing delimiter's line terminator, then the blank
	// separator line Write puts before the body. Both trims are safe on
	// hand-authored files that omit the separator.
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	var obj types.Object
	if err := yaml.Unmarshal([]byte(front), &obj); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", types.ErrParse, name, err)
	}
	obj.SetDefaults()

	return &obj, body, nil
}

// Write serializes the object and body to path atomically: the content lands
// in a temp file in the same directory and is renamed into place, so readers
// never observe a half-written object.
func Write(path string, obj *types.Object, body string) error {
	front, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", obj.ID, err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(front)
	b.WriteString(delimiter + "\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", obj.ID, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".trellis-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
