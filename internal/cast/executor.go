package cast

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"spellcast/internal/spell"
)

// defaultBatchInterval is the streaming flush cadence.
const defaultBatchInterval = 200 * time.Millisecond

// stderrLimit bounds how much captured stderr is attached to errors.
const stderrLimit = 2048

// Request asks for one spell execution. Cancellation rides on the context
// passed to Run; Timeout is the wall-clock budget measured from issuance.
type Request struct {
	Spell   spell.Descriptor
	Input   string
	Timeout time.Duration
}

// Executor runs spells. It exclusively owns the subprocess handle and its
// pipes for the duration of an execution.
type Executor struct {
	// BatchInterval overrides the streaming flush cadence. Zero means the
	// default 200ms.
	BatchInterval time.Duration
}

// New returns an Executor with default settings.
func New() *Executor { return &Executor{} }

// Run executes one request and reports the outcome. Static spells never
// spawn a subprocess. Stream spells return immediately with Outcome.Stream
// delivering chunks; everything else blocks until the process exits, the
// budget runs out, or ctx is cancelled.
func (e *Executor) Run(ctx context.Context, req Request) Outcome {
	if req.Spell.Kind == spell.KindStatic {
		return runStatic(req.Spell)
	}
	cancel := context.CancelFunc(func() {})
	if req.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	if req.Spell.Stream {
		// the stream's wait func releases the timer once the process exits
		return e.runStreaming(ctx, cancel, req)
	}
	defer cancel()
	return e.runBuffered(ctx, req)
}

// runStatic reads the spell's fixed payload; no subprocess.
func runStatic(d spell.Descriptor) Outcome {
	b, err := os.ReadFile(d.Entry)
	if err != nil {
		return failed(fmt.Errorf("%w: unreadable payload %s: %v", ErrSpellExecution, d.Entry, err))
	}
	return completed(string(b))
}

// command builds the shell invocation for a spell, rooted in its collection.
func command(ctx context.Context, d spell.Descriptor, input string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", d.Entry)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", d.Entry)
	}
	cmd.Dir = d.Dir
	if d.AcceptsInput {
		// empty input still yields an immediately-EOF stdin, so transforms
		// never block waiting for data the caller will not supply
		cmd.Stdin = strings.NewReader(input)
	}
	// spells that ignore input get a closed stdin (exec's default /dev/null)
	// The shell forks the spell command as its own child; killing the whole
	// process group on timeout/cancel keeps orphans from holding the stdout
	// pipe open past the deadline.
	killProcessGroup(cmd)
	cmd.WaitDelay = time.Second
	return cmd
}

func (e *Executor) runBuffered(ctx context.Context, req Request) Outcome {
	cmd := command(ctx, req.Spell, req.Input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if out, ok := interrupted(ctx); ok {
		return out
	}
	if err != nil {
		return failed(execError(req.Spell.Trigger, err, stderr.Bytes()))
	}
	return completed(stdout.String())
}

func (e *Executor) runStreaming(ctx context.Context, release context.CancelFunc, req Request) Outcome {
	cmd := command(ctx, req.Spell, req.Input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		release()
		return failed(fmt.Errorf("%w: %v", ErrSpellExecution, err))
	}
	if err := cmd.Start(); err != nil {
		release()
		return failed(execError(req.Spell.Trigger, err, stderr.Bytes()))
	}

	interval := e.BatchInterval
	if interval <= 0 {
		interval = defaultBatchInterval
	}
	s := newStream(stdout, interval, func() error {
		defer release()
		err := cmd.Wait()
		if out, ok := interrupted(ctx); ok {
			return out.Err // nil for plain cancellation
		}
		if err != nil {
			return execError(req.Spell.Trigger, err, stderr.Bytes())
		}
		return nil
	})
	return streaming(s)
}

// interrupted maps a dead context to the matching outcome: timeout is a
// failure, cancellation is not.
func interrupted(ctx context.Context) (Outcome, bool) {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return failed(ErrTimeout), true
	case context.Canceled:
		return cancelled(), true
	}
	return Outcome{}, false
}

// execError wraps a subprocess failure with its captured stderr.
func execError(trigger string, err error, stderr []byte) error {
	msg := strings.TrimSpace(string(stderr))
	if len(msg) > stderrLimit {
		msg = msg[:stderrLimit]
	}
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", ErrSpellExecution, trigger, err)
	}
	return fmt.Errorf("%w: %s: %v: %s", ErrSpellExecution, trigger, err, msg)
}
