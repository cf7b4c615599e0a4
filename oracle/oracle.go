// Package oracle runs candidate programs against their unit tests in an
// interpreter subprocess.
package oracle

import (
	"context"
	"errors"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is how long a test subprocess may run before it is
// killed and the candidate is counted as failing.
const DefaultTimeout = 1500 * time.Millisecond

// DefaultInterpreter is the command used to execute candidate sources.
var DefaultInterpreter = []string{"python3"}

// Runner executes candidate sources with their tests appended.
type Runner struct {
	interpreter []string
	timeout     time.Duration
	logger      zerolog.Logger
}

// Option is a configuration function for a Runner.
type Option func(*Runner)

// WithInterpreter sets the interpreter command and any leading arguments.
func WithInterpreter(command ...string) Option {
	return func(r *Runner) {
		r.interpreter = command
	}
}

// WithTimeout sets the subprocess time budget.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger used to report oracle failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner returns a Runner with the default interpreter and timeout.
func NewRunner(options ...Option) *Runner {
	r := &Runner{
		interpreter: DefaultInterpreter,
		timeout:     DefaultTimeout,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RunTests appends each test fragment to the source, runs the combined
// program in one interpreter subprocess, and reports whether it exited
// zero within the time budget. Timeouts, non-zero exits, and spawn
// failures all count as a failing candidate; on timeout the subprocess is
// killed.
func (r *Runner) RunTests(ctx context.Context, source string, tests map[string]int) bool {
	fragments := make([]string, 0, len(tests))
	for fragment := range tests {
		fragments = append(fragments, fragment)
	}
	sort.Strings(fragments)

	var sb strings.Builder
	sb.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		sb.WriteString("\n")
	}
	for _, fragment := range fragments {
		sb.WriteString(fragment)
		sb.WriteString("\n")
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, r.interpreter[1:]...), "-c", sb.String())
	cmd := exec.CommandContext(runCtx, r.interpreter[0], args...)
	err := cmd.Run()
	if err == nil {
		return true
	}
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		r.logger.Debug().Dur("timeout", r.timeout).Msg("test subprocess timed out")
	case errors.Is(runCtx.Err(), context.Canceled):
		r.logger.Debug().Msg("test subprocess cancelled")
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.logger.Debug().Int("exit_code", exitErr.ExitCode()).Msg("tests failed")
		} else {
			r.logger.Warn().Err(err).Msg("failed to spawn test subprocess")
		}
	}
	return false
}
