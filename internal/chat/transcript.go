package chat

import (
	"sync"

	"github.com/samarth-qa/samarth/internal/models"
)

// Event names recorded by Transcript
const (
	EventAppend       = "append"
	EventShowLoading  = "show_loading"
	EventHideLoading  = "hide_loading"
	EventEnableInput  = "enable_input"
	EventDisableInput = "disable_input"
	EventClearInput   = "clear_input"
	EventFocusInput   = "focus_input"
	EventSetInput     = "set_input"
)

// Transcript is an in-memory View. It keeps the message log and the input
// state, and records every call in order.
type Transcript struct {
	mu       sync.Mutex
	messages []models.Message
	events   []string
	loading  bool
	enabled  bool
	focused  bool
	input    string

	// OnAppend, when set, is called with each appended message
	OnAppend func(models.Message)
}

var (
	_ View        = (*Transcript)(nil)
	_ InputSetter = (*Transcript)(nil)
)

// NewTranscript returns an empty transcript with input enabled
func NewTranscript() *Transcript {
	return &Transcript{enabled: true}
}

func (t *Transcript) AppendMessage(msg models.Message) {
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.events = append(t.events, EventAppend+":"+string(msg.Sender))
	hook := t.OnAppend
	t.mu.Unlock()

	if hook != nil {
		hook(msg)
	}
}

func (t *Transcript) ShowLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = true
	t.events = append(t.events, EventShowLoading)
}

func (t *Transcript) HideLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	t.events = append(t.events, EventHideLoading)
}

func (t *Transcript) SetInputEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	if !enabled {
		t.focused = false
		t.events = append(t.events, EventDisableInput)
		return
	}
	t.events = append(t.events, EventEnableInput)
}

func (t *Transcript) ClearInput() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = ""
	t.events = append(t.events, EventClearInput)
}

func (t *Transcript) FocusInput() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.focused = t.enabled
	t.events = append(t.events, EventFocusInput)
}

func (t *Transcript) SetInput(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = text
	t.events = append(t.events, EventSetInput)
}

// Messages returns a copy of the message log
func (t *Transcript) Messages() []models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Last returns the most recent message
func (t *Transcript) Last() (models.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.messages) == 0 {
		return models.Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Events returns a copy of the recorded calls
func (t *Transcript) Events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.events))
	copy(out, t.events)
	return out
}

func (t *Transcript) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

func (t *Transcript) InputEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Transcript) Focused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focused
}

func (t *Transcript) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}
