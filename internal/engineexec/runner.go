// Package engineexec runs the external engine program: one scratch
// directory per run, one subprocess per verb, output relayed to the logger.
package engineexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"grnexport/internal/grnerr"
)

const (
	// tailLines is how many trailing output lines are kept for error messages.
	tailLines = 5
	// waitDelay bounds how long a killed engine's children may hold its
	// output pipes open.
	waitDelay = 2 * time.Second
)

// Runner invokes Command with a verb appended. The zero value is unusable;
// Command, WorkRoot and RunID must be set.
type Runner struct {
	Command     []string
	WorkRoot    string
	RunID       string
	KeepWorkdir bool
	Log         *zap.SugaredLogger

	// Fs is the view of the scratch directory; the subprocess sees the real
	// filesystem, so this is an OS-backed Fs outside tests.
	Fs afero.Fs
}

// New returns a Runner over the OS filesystem.
func New(command []string, workRoot, runID string, log *zap.SugaredLogger) *Runner {
	return &Runner{
		Command:  command,
		WorkRoot: workRoot,
		RunID:    runID,
		Log:      log,
		Fs:       afero.NewOsFs(),
	}
}

// Workdir is the per-run scratch directory.
func (r *Runner) Workdir() string {
	return filepath.Join(r.WorkRoot, "grnexport-"+r.RunID)
}

// Prepare creates sub (relative to Workdir) and returns its path.
func (r *Runner) Prepare(sub string) (string, error) {
	dir := filepath.Join(r.Workdir(), sub)
	if err := r.Fs.MkdirAll(dir, 0o755); err != nil {
		return "", &grnerr.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return dir, nil
}

// Run executes Command verb args... and waits. A non-zero exit is returned
// with the last lines the program printed.
func (r *Runner) Run(ctx context.Context, verb string, args ...string) error {
	if len(r.Command) == 0 {
		return errors.New("engine command is empty")
	}
	if _, err := r.Prepare(""); err != nil {
		return err
	}
	argv := append(append(append([]string{}, r.Command[1:]...), verb), args...)
	cmd := exec.CommandContext(ctx, r.Command[0], argv...)
	cmd.Dir = r.Workdir()
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(), "GRNEXPORT_RUN_ID="+r.RunID)

	relay := &lineRelay{log: r.Log, verb: verb}
	cmd.Stdout = relay
	cmd.Stderr = relay

	r.Log.Debugw("engine start", "verb", verb, "argv", append([]string{r.Command[0]}, argv...))
	err := cmd.Run()
	relay.flush()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("engine %s: %w", verb, ctxErr)
	}
	if err != nil {
		if tail := relay.tail(); tail != "" {
			return fmt.Errorf("engine %s: %w: %s", verb, err, tail)
		}
		return fmt.Errorf("engine %s: %w", verb, err)
	}
	return nil
}

// Cleanup removes the scratch directory unless KeepWorkdir is set.
func (r *Runner) Cleanup() error {
	if r.KeepWorkdir {
		r.Log.Infow("keeping engine workdir", "dir", r.Workdir())
		return nil
	}
	return r.Fs.RemoveAll(r.Workdir())
}

// lineRelay splits subprocess output into lines, logs each at debug level
// and remembers the last few.
type lineRelay struct {
	mu   sync.Mutex
	log  *zap.SugaredLogger
	verb string
	buf  bytes.Buffer
	last []string
}

func (l *lineRelay) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// incomplete line; put it back for the next write
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		l.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

func (l *lineRelay) emit(line string) {
	if line == "" {
		return
	}
	l.log.Debugw(line, "engine", l.verb)
	l.last = append(l.last, line)
	if len(l.last) > tailLines {
		l.last = l.last[len(l.last)-tailLines:]
	}
}

func (l *lineRelay) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() > 0 {
		l.emit(l.buf.String())
		l.buf.Reset()
	}
}

func (l *lineRelay) tail() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.last, " | ")
}
