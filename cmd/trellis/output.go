package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/trellisdev/trellis/internal/types"
)

// outputJSON outputs data as pretty-printed JSON to stdout.
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// fail prints an error and exits. In JSON mode the error goes to stderr as
// a JSON object with a stable code, so callers can branch on it.
func fail(err error) {
	if jsonOutput {
		errObj := map[string]string{"error": err.Error()}
		if code := errorCode(err); code != "" {
			errObj["code"] = code
		}
		encoder := json.NewEncoder(os.Stderr)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(errObj)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return "not-found"
	case errors.Is(err, types.ErrNoTaskAvailable):
		return "no-task-available"
	case errors.Is(err, types.ErrPrerequisitesNotComplete):
		return "prerequisites-not-complete"
	case errors.Is(err, types.ErrInvalidStatusForCompletion):
		return "invalid-status"
	case errors.Is(err, types.ErrCircularDependency):
		return "circular-dependency"
	case errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrEmptyID):
		return "invalid-id"
	case errors.Is(err, types.ErrInvalidKind):
		return "invalid-kind"
	case errors.Is(err, types.ErrParse):
		return "parse-error"
	}
	return ""
}
