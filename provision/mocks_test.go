package provision

import (
	"context"

	"github.com/wopanel/wopanel/executor"
)

// MockCommandRunner records every invocation and plays back canned results
type MockCommandRunner struct {
	RunFunc  func(ctx context.Context, command executor.Command) (*executor.Result, error)
	Commands []executor.Command
}

func (m *MockCommandRunner) Run(ctx context.Context, command executor.Command) (*executor.Result, error) {
	m.Commands = append(m.Commands, command)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, command)
	}
	return &executor.Result{ExitCode: 0}, nil
}
