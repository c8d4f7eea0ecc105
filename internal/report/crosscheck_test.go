package report

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestCrosscheckStatusStrings(t *testing.T) {
	cases := map[CrosscheckStatus]string{
		CrosscheckPassed:      "passed",
		CrosscheckFailed:      "failed",
		CrosscheckTimeout:     "timeout",
		CrosscheckUnavailable: "unavailable",
		CrosscheckStatus(99):  "unknown",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("%d: got %q, want %q", status, got, want)
		}
	}
}

func TestCrosscheckUnavailable(t *testing.T) {
	res := Crosscheck(context.Background(), "", "report.json", 0)
	if res.Status != CrosscheckUnavailable {
		t.Errorf("empty binary: got %s", res.Status)
	}

	res = Crosscheck(context.Background(), filepath.Join(t.TempDir(), "no-such-binary"), "report.json", 0)
	if res.Status != CrosscheckUnavailable {
		t.Errorf("missing binary: got %s", res.Status)
	}
}

func TestCrosscheckExitCodes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-script replay stand-ins need a POSIX shell")
	}
	dir := t.TempDir()

	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
			t.Fatal(err)
		}
		return path
	}

	pass := write("pass.sh", "echo clean; exit 0\n")
	res := Crosscheck(context.Background(), pass, "report.json", time.Minute)
	if res.Status != CrosscheckPassed {
		t.Errorf("clean replay: got %s (%s)", res.Status, res.Output)
	}

	fail := write("fail.sh", "echo reproduced; exit 1\n")
	res = Crosscheck(context.Background(), fail, "report.json", time.Minute)
	if res.Status != CrosscheckFailed {
		t.Errorf("reproducing replay: got %s", res.Status)
	}

	slow := write("slow.sh", "sleep 5\n")
	res = Crosscheck(context.Background(), slow, "report.json", 100*time.Millisecond)
	if res.Status != CrosscheckTimeout {
		t.Errorf("slow replay: got %s", res.Status)
	}
}
