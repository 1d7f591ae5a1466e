// Package chat drives the request/response cycle of a chat session.
//
// A Controller owns the lifecycle of one submission at a time: it appends
// the user's message, disables input, shows a loading indicator, calls the
// backend and appends exactly one answer. Rendering is delegated to a View,
// so the same controller backs the TUI, one-shot commands and tests.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apierrors "github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/models"
)

// Texts shown when the backend gives nothing usable
const (
	FallbackErrorText   = "An error occurred"
	ConnectionErrorText = "Sorry, I couldn't connect to the server. Please try again."
)

// View receives every visible effect of a submission, in order
type View interface {
	// AppendMessage adds a message to the list and scrolls to it
	AppendMessage(msg models.Message)
	ShowLoading()
	HideLoading()
	// SetInputEnabled toggles the input field and the send control together
	SetInputEnabled(enabled bool)
	ClearInput()
	FocusInput()
}

// InputSetter is implemented by views that can place text in the input,
// used when a preset example is activated.
type InputSetter interface {
	SetInput(text string)
}

// Sender sends one query to the backend
type Sender interface {
	Chat(ctx context.Context, query string) (*models.ChatResponse, error)
}

// State is the lifecycle state of the controller
type State int32

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Outcome classifies how a submission settled
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeSoftFailure
	OutcomeHardFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSoftFailure:
		return "soft_failure"
	default:
		return "hard_failure"
	}
}

// Controller is the chat view-model
type Controller struct {
	sender   Sender
	view     View
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
	fallback string
	onSettle func(Outcome)

	state atomic.Int32
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for failure diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock overrides the time source for message timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDFunc overrides how message IDs are generated
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// WithFallbackText replaces the text of soft failures that carry no message
func WithFallbackText(text string) Option {
	return func(c *Controller) {
		c.fallback = text
	}
}

// WithSettleHook registers fn to run after each accepted submission settles,
// once input is usable again.
func WithSettleHook(fn func(Outcome)) Option {
	return func(c *Controller) {
		c.onSettle = fn
	}
}

// NewController creates a controller bound to its sender and view
func NewController(sender Sender, view View, opts ...Option) *Controller {
	c := &Controller{
		sender:   sender,
		view:     view,
		logger:   zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
		fallback: FallbackErrorText,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Busy reports whether a submission is in flight
func (c *Controller) Busy() bool {
	return c.State() == StateSending
}

// Submit runs one query through the full cycle and blocks until it settles.
//
// It returns false without any effect when the query is blank or another
// submission is in flight. Otherwise exactly one user message and one bot
// message are appended, and input is re-enabled and focused before return.
func (c *Controller) Submit(ctx context.Context, query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateSending)) {
		c.logger.Debug().Err(apierrors.ErrBusy).Msg("submission rejected")
		return false
	}

	outcome := OutcomeHardFailure
	defer func() { c.settle(outcome) }()

	c.view.AppendMessage(c.message(models.SenderUser, query))
	c.view.ClearInput()
	c.view.SetInputEnabled(false)
	c.view.ShowLoading()

	start := c.now()
	resp, err := c.send(ctx, query)
	c.view.HideLoading()

	var answer models.Message
	answer, outcome = c.answer(resp, err)

	event := c.logger.Debug()
	if outcome == OutcomeHardFailure {
		event = c.logger.Error().Err(err)
	}
	event.Str("message_id", answer.ID).
		Stringer("outcome", outcome).
		Dur("elapsed", c.now().Sub(start)).
		Msg("chat request settled")

	c.view.AppendMessage(answer)
	return true
}

// SubmitExample activates a preset question: its text is placed in the
// input and submitted like a typed query.
func (c *Controller) SubmitExample(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || c.Busy() {
		return false
	}
	if setter, ok := c.view.(InputSetter); ok {
		setter.SetInput(text)
	}
	return c.Submit(ctx, text)
}

// settle always runs, whatever path the submission took
func (c *Controller) settle(outcome Outcome) {
	c.state.Store(int32(StateIdle))
	c.view.SetInputEnabled(true)
	c.view.FocusInput()
	if c.onSettle != nil {
		c.onSettle(outcome)
	}
}

// send calls the sender, turning a panic into a hard failure
func (c *Controller) send(ctx context.Context, query string) (resp *models.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("chat request panicked: %v", r)
		}
	}()

	resp, err = c.sender.Chat(ctx, query)
	if err == nil && resp == nil {
		err = apierrors.ErrInvalidResponse
	}
	return resp, err
}

// answer builds the bot message for a settled request
func (c *Controller) answer(resp *models.ChatResponse, err error) (models.Message, Outcome) {
	msg := c.message(models.SenderBot, "")

	switch {
	case err != nil:
		msg.Text = ConnectionErrorText
		msg.Error = true
		return msg, OutcomeHardFailure

	case !resp.Success:
		msg.Text = resp.Response.String()
		if msg.Text == "" {
			msg.Text = c.fallback
		}
		msg.Error = true
		return msg, OutcomeSoftFailure

	case resp.IsTable():
		msg.Kind = models.KindTable
		msg.Rows = resp.Response.Rows
		return msg, OutcomeSuccess

	default:
		msg.Text = resp.Response.String()
		return msg, OutcomeSuccess
	}
}

func (c *Controller) message(sender models.Sender, text string) models.Message {
	return models.Message{
		ID:        c.newID(),
		Sender:    sender,
		Kind:      models.KindText,
		Text:      text,
		CreatedAt: c.now(),
	}
}
