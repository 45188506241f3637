package deploy

import (
	"context"
	"sync"

	"github.com/wopanel/wopanel/executor"
)

// MockCommandRunner records every tool invocation in order and plays back
// canned results. Safe for concurrent use.
type MockCommandRunner struct {
	RunFunc func(ctx context.Context, command executor.Command) (*executor.Result, error)

	mu       sync.Mutex
	commands []executor.Command
}

func (m *MockCommandRunner) Run(ctx context.Context, command executor.Command) (*executor.Result, error) {
	m.mu.Lock()
	m.commands = append(m.commands, command)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, command)
	}
	return &executor.Result{ExitCode: 0}, nil
}

// Commands returns a snapshot of the recorded invocations
func (m *MockCommandRunner) Commands() []executor.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]executor.Command(nil), m.commands...)
}

// CommandLines flattens recorded invocations into "name arg arg ..." strings
// for order assertions
func (m *MockCommandRunner) CommandLines() []string {
	lines := make([]string, 0)
	for _, c := range m.Commands() {
		line := c.Name
		for _, a := range c.Args {
			line += " " + a
		}
		lines = append(lines, line)
	}
	return lines
}
