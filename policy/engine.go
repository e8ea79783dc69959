// Package policy gates chat turns through an OPA rego policy before they
// are dispatched to the completion backend.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decision values returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// TurnInput is the document evaluated for each submitted turn.
type TurnInput struct {
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
	Model         string `json:"model"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a policy engine from the given rego policy content. The
// policy must define data.chat_policy.decision.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision for a turn. An undefined decision
// defaults to allow; the shipped policies define their own default.
func (e *Engine) Evaluate(ctx context.Context, input TurnInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy allows every turn except inputs past the backend's
// practical context size.
const DefaultPolicy = `
package chat_policy

default decision := "allow"

decision := "block" if {
	input.content_length > 16384
}
`
