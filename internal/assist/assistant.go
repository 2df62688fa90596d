package assist

import (
	"context"
	"fmt"
	"sync"

	"github.com/debemdeboas/inkdraft/internal/notify"
	"github.com/rs/zerolog"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
)

type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Status is the state of one operation: idle or pending, plus how the last
// request ended.
type Status struct {
	Phase   Phase   `json:"phase"`
	Outcome Outcome `json:"outcome,omitempty"`
	Message string  `json:"message,omitempty"`
	Seq     uint64  `json:"seq"`
}

type Options struct {
	Notifier  notify.Notifier
	Sanitizer *Sanitizer
	Logger    zerolog.Logger
	// Observe is told how every request that reached the gateway ended.
	Observe func(op Operation, outcome Outcome)
}

type Assistant struct {
	gateway   Gateway
	target    Target
	notifier  notify.Notifier
	sanitizer *Sanitizer
	logger    zerolog.Logger
	observe   func(Operation, Outcome)

	mu         sync.Mutex
	generating bool
	improving  bool
	seq        uint64
	closed     bool
	status     map[Operation]Status
}

func New(gateway Gateway, target Target, opts Options) *Assistant {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard
	}
	if opts.Sanitizer == nil {
		opts.Sanitizer = NewSanitizer()
	}
	return &Assistant{
		gateway:   gateway,
		target:    target,
		notifier:  opts.Notifier,
		sanitizer: opts.Sanitizer,
		logger:    opts.Logger,
		observe:   opts.Observe,
		status: map[Operation]Status{
			OpGenerate: {Phase: PhaseIdle},
			OpImprove:  {Phase: PhaseIdle},
		},
	}
}

func (a *Assistant) busy() bool {
	return a.generating || a.improving
}

// begin marks op as pending and returns its sequence number. The caller must
// hold a.mu and have checked busy().
func (a *Assistant) begin(op Operation) uint64 {
	a.seq++
	if op == OpGenerate {
		a.generating = true
	} else {
		a.improving = true
	}
	a.status[op] = Status{Phase: PhasePending, Seq: a.seq}
	return a.seq
}

// Generate replaces the content with a post generated from the title,
// category and tags. Existing content is only replaced when confirm approves.
func (a *Assistant) Generate(ctx context.Context, confirm Confirmer) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.busy() {
		a.mu.Unlock()
		return ErrBusy
	}
	a.mu.Unlock()

	if !a.target.HasTitle() {
		notify.Error(a.notifier, msgMissingTitle)
		return ErrMissingTitle
	}
	if a.target.HasContent() {
		if confirm == nil || !confirm.Confirm(ConfirmReplacePrompt) {
			return ErrDeclined
		}
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.busy() {
		a.mu.Unlock()
		return ErrBusy
	}
	seq := a.begin(OpGenerate)
	a.mu.Unlock()

	snap := a.target.Snapshot()
	req := GenerateRequest{Title: snap.Title, Category: snap.Category, Tags: snap.Tags}
	a.logger.Info().Uint64("seq", seq).Str("title", req.Title).Msg("Generating content")

	res, err := a.gateway.Generate(ctx, req)
	return a.finish(OpGenerate, seq, res, err, msgGenerated, msgGenerateFailed)
}

// Improve rewrites the current content according to kind.
func (a *Assistant) Improve(ctx context.Context, kind Kind) error {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return err
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.busy() {
		a.mu.Unlock()
		return ErrBusy
	}
	if !a.target.HasContent() {
		a.mu.Unlock()
		notify.Error(a.notifier, msgMissingContent)
		return ErrMissingContent
	}
	seq := a.begin(OpImprove)
	a.mu.Unlock()

	content := a.target.Snapshot().Content
	a.logger.Info().Uint64("seq", seq).Str("kind", string(kind)).Msg("Improving content")

	res, err := a.gateway.Improve(ctx, content, kind)
	return a.finish(OpImprove, seq, res, err, msgImproved(kind), msgImproveFailed)
}

// finish applies a gateway answer and always clears the operation's flag.
func (a *Assistant) finish(op Operation, seq uint64, res Result, callErr error, okMsg, failMsg string) error {
	a.mu.Lock()
	if op == OpGenerate {
		a.generating = false
	} else {
		a.improving = false
	}

	if a.closed || seq != a.seq {
		a.mu.Unlock()
		a.logger.Debug().Uint64("seq", seq).Str("operation", string(op)).Msg("Dropping stale AI response")
		return ErrClosed
	}

	toast := notify.Error
	var msg string
	var outcome Outcome
	var result error

	switch {
	case callErr != nil:
		a.logger.Error().Err(callErr).Uint64("seq", seq).Str("operation", string(op)).Msg("AI request failed")
		msg, outcome = failMsg, OutcomeError
		result = fmt.Errorf("%w: %w", ErrGateway, callErr)
	case !res.Success:
		msg = res.Error
		if msg == "" {
			msg = msgGatewayError
		}
		a.logger.Warn().Uint64("seq", seq).Str("operation", string(op)).Str("reason", msg).Msg("AI returned an error")
		outcome = OutcomeError
		result = fmt.Errorf("%w: %s", ErrGateway, msg)
	default:
		// Last writer wins: the response overwrites edits made while pending.
		a.target.ReplaceContent(a.sanitizer.Sanitize(res.Content))
		toast, msg, outcome = notify.Success, okMsg, OutcomeSuccess
	}

	a.status[op] = Status{Phase: PhaseIdle, Outcome: outcome, Message: msg, Seq: seq}
	a.mu.Unlock()

	toast(a.notifier, msg)
	if a.observe != nil {
		a.observe(op, outcome)
	}
	return result
}

// CanGenerate reports whether Generate would start a request right now.
func (a *Assistant) CanGenerate() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed && !a.busy() && a.target.HasTitle()
}

func (a *Assistant) CanImprove() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed && !a.busy() && a.target.HasContent()
}

func (a *Assistant) Generating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generating
}

func (a *Assistant) Improving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.improving
}

func (a *Assistant) Status(op Operation) Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status[op]
}

// Close drops responses of requests still in flight.
func (a *Assistant) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}
