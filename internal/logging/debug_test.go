package logging

import (
	"bytes"
	"os"
	"testing"
)

func TestDebugEnabled(t *testing.T) {
	// Test with TM_DEBUG not set
	os.Unsetenv("TM_DEBUG")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TM_DEBUG is not set")
	}

	// Test with TM_DEBUG set to empty string
	t.Setenv("TM_DEBUG", "")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TM_DEBUG is empty")
	}

	// Test with TM_DEBUG set to any value
	t.Setenv("TM_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when TM_DEBUG is set")
	}
}

func TestDebugf(t *testing.T) {
	var buf bytes.Buffer
	restore := SetDebugOutput(&buf)
	defer restore()

	t.Setenv("TM_DEBUG", "")
	Debugf("This should not appear: %s", "test")
	if buf.Len() != 0 {
		t.Errorf("Debugf() wrote %q with debug disabled", buf.String())
	}

	t.Setenv("TM_DEBUG", "1")
	Debugf("saved %d tasks to %s", 1, "a.json")
	Debugf("connected to postgres, table %s slot %s", "kv", "tasks")
	Debugf("created task %s\n", "0190")

	want := "debug: saved 1 tasks to a.json\n" +
		"debug: connected to postgres, table kv slot tasks\n" +
		"debug: created task 0190\n"
	if got := buf.String(); got != want {
		t.Errorf("Debugf() wrote %q, want %q", got, want)
	}
}

func TestDebugln(t *testing.T) {
	var buf bytes.Buffer
	restore := SetDebugOutput(&buf)
	defer restore()

	t.Setenv("TM_DEBUG", "")
	Debugln("This should not appear")

	t.Setenv("TM_DEBUG", "1")
	Debugln("no stored tasks,", "starting empty")

	if got, want := buf.String(), "debug: no stored tasks, starting empty\n"; got != want {
		t.Errorf("Debugln() wrote %q, want %q", got, want)
	}
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	restore := SetWarnOutput(&buf)
	defer restore()

	Warnf("ignoring %d malformed task records\n", 2)

	if got, want := buf.String(), "warning: ignoring 2 malformed task records\n"; got != want {
		t.Errorf("Warnf() wrote %q, want %q", got, want)
	}
}
