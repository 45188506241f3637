// Package executor runs external commands with captured output and hard
// per-invocation timeouts.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

var (
	// ErrExecutionTimeout is returned when a command exceeds its timeout.
	// The child process is killed and reaped before the error is returned.
	ErrExecutionTimeout = errors.New("command execution timed out")

	// ErrExecutionStart is returned when the command could not be started at
	// all (binary not found, permission denied).
	ErrExecutionStart = errors.New("command failed to start")
)

// Command describes one external invocation. Args are passed as a discrete
// argv; nothing is ever interpreted by a shell.
type Command struct {
	Name    string
	Args    []string
	Stdin   string
	Timeout time.Duration
}

// Result is the captured outcome of a finished command. A non-zero exit code
// is not an error at this layer: the external tools' exit codes carry domain
// meaning that callers interpret.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the command exited with code zero
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}

// CommandRunner abstracts process execution for testing
type CommandRunner interface {
	Run(ctx context.Context, command Command) (*Result, error)
}

// ProcessRunner executes commands as real OS processes
type ProcessRunner struct{}

// Ensure ProcessRunner implements CommandRunner
var _ CommandRunner = (*ProcessRunner)(nil)

func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{}
}

func (p *ProcessRunner) Run(ctx context.Context, command Command) (*Result, error) {
	if command.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, command.Timeout)
		defer cancel()
	}

	slog.Debug("Executing command",
		"layer", "executor",
		"command", command.Name,
		"args", command.Args,
		"timeout", command.Timeout)

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)

	// If the process ignores SIGKILL's delivery window (e.g. it is blocked in
	// uninterruptible IO), WaitDelay forces Wait to give up on draining pipes
	// so the call cannot hang forever.
	cmd.WaitDelay = 10 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if command.Stdin != "" {
		cmd.Stdin = strings.NewReader(command.Stdin)
	}

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		slog.Error("Command execution failed",
			"layer", "executor",
			"operation", "run",
			"command", command.Name,
			"error", "timeout",
			"timeout", command.Timeout)
		return nil, fmt.Errorf("%w: %s after %s", ErrExecutionTimeout, command.Name, command.Timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit is data, not failure
			return &Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}

		slog.Error("Command execution failed",
			"layer", "executor",
			"operation", "run",
			"command", command.Name,
			"error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrExecutionStart, command.Name, err)
	}

	return &Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
