package policy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/awmpietro/under5-screening/internal/policy/eval"
)

const defaultMaxSteps = 64

type Evaluator interface {
	Eval(cond string, vars map[string]any) (bool, error)
}

type CompiledEvaluator interface {
	EvalCompiled(compiled *eval.Compiled, vars map[string]any) (bool, error)
}

type Engine struct {
	eval            Evaluator
	latencyObserver NodeLatencyObserver
	maxSteps        int
}

type EngineOption func(*Engine)

func WithNodeLatencyObserver(observer NodeLatencyObserver) EngineOption {
	return func(e *Engine) {
		e.latencyObserver = observer
	}
}

func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

func NewEngine(eval Evaluator, opts ...EngineOption) *Engine {
	e := &Engine{eval: eval, maxSteps: defaultMaxSteps}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run walks p, writing every visited node's assignments into vars.
func (e *Engine) Run(p *Policy, vars map[string]any) error {
	return e.run(p, vars, nil)
}

func (e *Engine) RunWithTrace(p *Policy, vars map[string]any) (*ExecutionTrace, error) {
	trace := &ExecutionTrace{}
	err := e.run(p, vars, trace)
	return trace, err
}

func (e *Engine) run(p *Policy, vars map[string]any, trace *ExecutionTrace) error {
	if p == nil {
		return fmt.Errorf("policy is nil")
	}
	if p.Nodes == nil {
		return fmt.Errorf("policy nodes is nil")
	}

	current := p.Start
	if current == "" {
		current = "start"
	}
	if trace != nil {
		trace.StartNode = current
	}

	for range e.maxSteps {
		nodeStart := time.Now()
		node := p.Nodes[current]
		if node == nil {
			e.observeNodeLatency(current, time.Since(nodeStart))
			terminate(trace, current, TerminatedUnknownNode)
			return fmt.Errorf("unknown node %q", current)
		}

		var step *TraceStep
		if trace != nil {
			trace.VisitedPath = append(trace.VisitedPath, current)
			trace.Steps = append(trace.Steps, TraceStep{NodeID: current})
			step = &trace.Steps[len(trace.Steps)-1]
		}

		for _, a := range node.Result {
			vars[a.Key] = a.Value
			if step != nil {
				if step.Assigned == nil {
					step.Assigned = map[string]any{}
				}
				step.Assigned[a.Key] = a.Value
			}
		}

		if len(node.Outgoing) == 0 {
			e.finishStep(step, current, nodeStart)
			terminate(trace, current, TerminatedLeaf)
			return nil
		}

		// An erroring edge aborts the walk instead of falling through to a
		// later, less severe edge.
		next := ""
		for _, edge := range node.Outgoing {
			ok, err := e.evalEdge(edge, vars)
			if step != nil {
				et := EdgeTrace{To: edge.To, Cond: edge.Cond, Matched: ok && err == nil}
				if err != nil {
					et.Error = err.Error()
				}
				step.Edges = append(step.Edges, et)
			}
			if err != nil {
				e.finishStep(step, current, nodeStart)
				var mvErr *eval.MissingVariablesError
				if errors.As(err, &mvErr) {
					terminate(trace, current, TerminatedMissingVars)
					return fmt.Errorf("edge %s -> %s: missing input vars [%s]", current, edge.To, strings.Join(mvErr.Vars, ", "))
				}
				terminate(trace, current, TerminatedEvalError)
				return fmt.Errorf("edge %s -> %s (%q): %w", current, edge.To, edge.Cond, err)
			}
			if ok {
				next = edge.To
				break
			}
		}

		e.finishStep(step, current, nodeStart)

		if next == "" {
			terminate(trace, current, TerminatedNoEdgeMatched)
			return nil
		}

		if step != nil {
			step.ChosenNext = next
		}
		current = next
	}

	terminate(trace, current, TerminatedMaxSteps)
	return fmt.Errorf("maxSteps (%d) exceeded (possible cycle)", e.maxSteps)
}

func terminate(trace *ExecutionTrace, nodeID, reason string) {
	if trace == nil {
		return
	}
	trace.EndNode = nodeID
	trace.Terminated = reason
}

func (e *Engine) finishStep(step *TraceStep, nodeID string, start time.Time) {
	d := time.Since(start)
	if step != nil {
		step.DurationMicros = d.Microseconds()
	}
	e.observeNodeLatency(nodeID, d)
}

func (e *Engine) observeNodeLatency(nodeID string, duration time.Duration) {
	if e.latencyObserver == nil {
		return
	}
	e.latencyObserver.ObserveNodeLatency(nodeID, duration)
}

func (e *Engine) evalEdge(edge Edge, vars map[string]any) (bool, error) {
	if edge.CompiledCond != nil {
		if ce, ok := e.eval.(CompiledEvaluator); ok {
			return ce.EvalCompiled(edge.CompiledCond, vars)
		}
	}
	return e.eval.Eval(edge.Cond, vars)
}
