package objfile

import (
	"encoding/json"
	"strings"
	"time"
)

// logHeading introduces the completion log section in a task body.
const logHeading = "### Log"

// logStampLayout is RFC3339 with microsecond precision and a literal Z.
// Object files always record UTC.
const logStampLayout = "2006-01-02T15:04:05.000000Z"

// AppendLogEntry appends a completion entry to a task body, creating the
// "### Log" section on first use. Summary and each changed file are embedded
// verbatim; the file list is rendered as a JSON-quoted array.
func AppendLogEntry(body string, at time.Time, summary string, filesChanged []string) string {
	var entry strings.Builder
	entry.WriteString("**")
	entry.WriteString(at.UTC().Format(logStampLayout))
	entry.WriteString("** ")
	entry.WriteString(summary)
	entry.WriteString("\n")
	entry.WriteString("Files changed: ")
	entry.WriteString(quoteFileList(filesChanged))
	entry.WriteString("\n")

	body = strings.TrimRight(body, "\n")
	if body == "" {
		return logHeading + "\n\n" + entry.String()
	}
	if strings.Contains(body, logHeading) {
		return body + "\n\n" + entry.String()
	}
	return body + "\n\n" + logHeading + "\n\n" + entry.String()
}

func quoteFileList(files []string) string {
	if files == nil {
		files = []string{}
	}
	out, err := json.Marshal(files)
	if err != nil {
		return "[]"
	}
	return string(out)
}
