// Package engine orchestrates one full conversation turn: validation,
// session mutation, durable logging, and backend dispatch.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/singhshivanjali049-sudo/customer-support-chatbot/completion"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/domain"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/policy"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/session"
	"github.com/singhshivanjali049-sudo/customer-support-chatbot/transcript"
)

// FailureRenderer turns a contained failure into assistant-role reply text.
type FailureRenderer func(domain.Failure) string

// defaultFailureRenderer matches the support assistant's apologetic tone.
func defaultFailureRenderer(f domain.Failure) string {
	return fmt.Sprintf("Sorry, I'm having trouble connecting right now. Error: %s", f.Detail)
}

// TurnResult is the caller-facing outcome of one turn. Reply is always
// non-empty; Failure carries the typed view when the reply is contained
// failure text.
type TurnResult struct {
	SessionID string          `json:"session_id"`
	Reply     string          `json:"reply"`
	Failure   *domain.Failure `json:"failure,omitempty"`
}

// Engine owns one session and processes its turns sequentially. Multiple
// independent engines may run concurrently; they share only the transcript
// log, which serializes its own appends.
type Engine struct {
	mu              sync.Mutex
	session         *session.Session
	log             transcript.Log
	completer       *completion.Completer
	policy          *policy.Engine
	renderFailure   FailureRenderer
	loggingDegraded int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy gates turns through the given policy engine before dispatch.
func WithPolicy(p *policy.Engine) Option {
	return func(e *Engine) { e.policy = p }
}

// WithFailureRenderer overrides how contained failures are rendered as
// reply text.
func WithFailureRenderer(r FailureRenderer) Option {
	return func(e *Engine) { e.renderFailure = r }
}

// WithSession replaces the engine's initial session. Used by tests.
func WithSession(s *session.Session) Option {
	return func(e *Engine) { e.session = s }
}

// New creates an engine with a fresh session.
func New(tlog transcript.Log, completer *completion.Completer, opts ...Option) *Engine {
	e := &Engine{
		session:       session.New(),
		log:           tlog,
		completer:     completer,
		renderFailure: defaultFailureRenderer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionID returns the current session identifier.
func (e *Engine) SessionID() string {
	return e.session.ID()
}

// SubmitTurn processes one full turn and returns the reply. A missing
// credential aborts before any session or log mutation. Backend and policy
// failures are contained: the user still receives a turn, and both sides of
// it are recorded.
func (e *Engine) SubmitTurn(ctx context.Context, userText string, cfg domain.CompletionConfig) (*TurnResult, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var outcome completion.Outcome
	blocked := false
	if e.policy != nil {
		decision, err := e.policy.Evaluate(ctx, policy.TurnInput{
			Content:       userText,
			ContentLength: len(userText),
			Model:         cfg.Model,
		})
		if err != nil {
			log.Printf("WARN: policy evaluation failed, allowing turn: %v", err)
		} else if decision == policy.DecisionBlock {
			blocked = true
			outcome = completion.Outcome{Failure: &domain.Failure{
				Kind:   domain.FailureBlocked,
				Detail: "message rejected by policy",
			}}
		}
	}

	e.session.Append(domain.RoleUser, userText)
	e.record(ctx, domain.RoleUser, userText)

	if !blocked {
		// The only step that may block for non-trivial time. No log
		// lock is held here; the session is guarded by e.mu alone.
		outcome = e.completer.Complete(ctx, e.session.History(), cfg)
	}

	reply := outcome.Reply
	if outcome.Failure != nil {
		reply = e.renderFailure(*outcome.Failure)
	}

	e.session.Append(domain.RoleAssistant, reply)
	e.record(ctx, domain.RoleAssistant, reply)

	return &TurnResult{
		SessionID: e.session.ID(),
		Reply:     reply,
		Failure:   outcome.Failure,
	}, nil
}

// record appends one side of a turn to the transcript log. Losing
// durability is preferable to breaking the live conversation, so failures
// are reported through the process log and the turn proceeds.
func (e *Engine) record(ctx context.Context, role domain.Role, content string) {
	if err := e.log.Append(ctx, e.session.ID(), role, content); err != nil {
		e.loggingDegraded++
		log.Printf("WARN: transcript append failed: %v", err)
	}
}

// CurrentTranscript returns the session's ordered message sequence.
func (e *Engine) CurrentTranscript() []domain.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.History()
}

// ResetSession replaces the session with a fresh one and returns the new
// identifier. The old session's turns remain in the transcript log.
func (e *Engine) ResetSession() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Reset()
}

// LoggingDegraded returns how many transcript appends have failed since the
// engine was created.
func (e *Engine) LoggingDegraded() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loggingDegraded
}
