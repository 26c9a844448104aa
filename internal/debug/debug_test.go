package debug

import "testing"

func TestVerboseEnablesOutput(t *testing.T) {
	SetVerbose(false)
	wasEnabled := Enabled()

	SetVerbose(true)
	if !Enabled() {
		t.Fatal("Enabled() should be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if Enabled() != wasEnabled {
		t.Fatal("SetVerbose(false) should restore the env-derived state")
	}
}

func TestQuietToggle(t *testing.T) {
	SetQuiet(true)
	if !IsQuiet() {
		t.Fatal("IsQuiet() should be true after SetQuiet(true)")
	}
	SetQuiet(false)
	if IsQuiet() {
		t.Fatal("IsQuiet() should be false after SetQuiet(false)")
	}
}
