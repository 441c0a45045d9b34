// Package tools executes the client tools the conversational agent can call
// during a phone session.
package tools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"voice-bridge/internal/observability"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Invocation is one client_tool_call from the agent.
type Invocation struct {
	ToolName   string
	ToolCallID string
	Parameters map[string]any
}

// Result answers exactly one Invocation, identified by ToolCallID.
type Result struct {
	ToolCallID string
	Payload    string
	IsError    bool
}

// Tool is a side-effecting operation the agent can request by name.
type Tool interface {
	Name() string
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// Dispatcher routes invocations to registered tools. It holds no per-call
// state and is safe for concurrent use.
type Dispatcher struct {
	tools  map[string]Tool
	logger *observability.Logger
}

func NewDispatcher(logger *observability.Logger, registered ...Tool) *Dispatcher {
	d := &Dispatcher{
		tools:  make(map[string]Tool, len(registered)),
		logger: logger,
	}
	for _, t := range registered {
		d.tools[t.Name()] = t
	}
	return d
}

// Names lists the registered tool names.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the invocation and always returns a Result carrying the
// invocation's ToolCallID. Unknown tools, failures and panics produce an
// error result.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (res Result) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tool_name", Value: inv.ToolName},
		observability.Field{Key: "tool_call_id", Value: inv.ToolCallID},
	)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("tool panicked: %v", r)
			d.logger.Error(ctx, fmt.Sprintf("recovered tool panic\n%s", debug.Stack()), err)
			res = errorResult(inv.ToolCallID, err)
		}
		observability.ToolCallFinished(inv.ToolName, res.IsError)
	}()

	tool, ok := d.tools[inv.ToolName]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownTool, inv.ToolName)
		d.logger.Warn(ctx, err.Error())
		return errorResult(inv.ToolCallID, err)
	}

	d.logger.Info(ctx, "executing tool call")
	payload, err := tool.Execute(ctx, inv.Parameters)
	if err != nil {
		d.logger.Error(ctx, "tool call failed", err)
		return errorResult(inv.ToolCallID, err)
	}

	d.logger.Info(ctx, "tool call completed")
	return Result{ToolCallID: inv.ToolCallID, Payload: payload}
}

func errorResult(toolCallID string, err error) Result {
	return Result{ToolCallID: toolCallID, Payload: err.Error(), IsError: true}
}
