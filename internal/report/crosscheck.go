package report

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// DefaultCrosscheckTimeout is the hard wall-clock limit for one replay.
const DefaultCrosscheckTimeout = 60 * time.Second

// CrosscheckStatus classifies the outcome of an out-of-process replay.
type CrosscheckStatus int

const (
	// CrosscheckPassed: the reference implementation handled the same
	// inputs cleanly — the failure likely lives in the wrapper layer.
	CrosscheckPassed CrosscheckStatus = iota
	// CrosscheckFailed: the reference implementation reproduced the
	// failure — the bug is in the underlying engine.
	CrosscheckFailed
	// CrosscheckTimeout: the replay exceeded the wall-clock limit.
	CrosscheckTimeout
	// CrosscheckUnavailable: no replay binary was found. This is a
	// distinct, non-fatal outcome, never a test failure.
	CrosscheckUnavailable
)

func (s CrosscheckStatus) String() string {
	switch s {
	case CrosscheckPassed:
		return "passed"
	case CrosscheckFailed:
		return "failed"
	case CrosscheckTimeout:
		return "timeout"
	case CrosscheckUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// CrosscheckResult carries the status plus the replay's combined output.
type CrosscheckResult struct {
	Status CrosscheckStatus
	Output string
}

// Crosscheck replays a captured failure artifact through a separately
// built reference binary, to distinguish a bug in the wrapper layer from
// a bug in the underlying engine. The binary receives the report path as
// its only argument and signals reproduction via a non-zero exit.
func Crosscheck(ctx context.Context, binary, reportPath string, timeout time.Duration) CrosscheckResult {
	if binary == "" {
		return CrosscheckResult{Status: CrosscheckUnavailable, Output: "no replay binary configured"}
	}
	if _, err := os.Stat(binary); errors.Is(err, os.ErrNotExist) {
		return CrosscheckResult{
			Status: CrosscheckUnavailable,
			Output: "replay binary not found: " + binary,
		}
	}
	if timeout <= 0 {
		timeout = DefaultCrosscheckTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, reportPath)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return CrosscheckResult{Status: CrosscheckTimeout, Output: string(out)}
	}
	if err != nil {
		return CrosscheckResult{Status: CrosscheckFailed, Output: string(out)}
	}
	return CrosscheckResult{Status: CrosscheckPassed, Output: string(out)}
}
