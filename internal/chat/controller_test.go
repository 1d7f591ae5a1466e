package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/samarth-qa/samarth/internal/api"
	apierrors "github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestController(sender Sender, view View, opts ...Option) *Controller {
	ids := 0
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts = append([]Option{
		WithClock(func() time.Time { return fixed }),
		WithIDFunc(func() string {
			ids++
			return "m" + string(rune('0'+ids))
		}),
	}, opts...)
	return NewController(sender, view, opts...)
}

func tableResponse() *models.ChatResponse {
	row := models.NewRow()
	row.Set("city", models.StringValue("Pune"))
	row.Set("amount", models.NumberValue(150000))
	return &models.ChatResponse{
		Success:  true,
		Type:     models.ResponseTypeTable,
		Response: models.Payload{Present: true, IsRows: true, Rows: models.Table{row}},
	}
}

func TestSubmit_EventOrder(t *testing.T) {
	sender := &api.MockClient{ChatVal: &models.ChatResponse{
		Success:  true,
		Type:     models.ResponseTypeText,
		Response: models.Payload{Present: true, Text: "hello"},
	}}
	view := NewTranscript()
	c := newTestController(sender, view)

	require.True(t, c.Submit(context.Background(), "Show top crops in Punjab"))

	assert.Equal(t, []string{
		"append:user",
		EventClearInput,
		EventDisableInput,
		EventShowLoading,
		EventHideLoading,
		"append:bot",
		EventEnableInput,
		EventFocusInput,
	}, view.Events())
	assert.Equal(t, []string{"Show top crops in Punjab"}, sender.Queries)
	assert.Equal(t, StateIdle, c.State())
}

func TestSubmit_TextAnswer(t *testing.T) {
	sender := &api.MockClient{ChatVal: &models.ChatResponse{
		Success:  true,
		Response: models.Payload{Present: true, Text: "State: Kerala\nTotal Crops: 42"},
	}}
	view := NewTranscript()
	c := newTestController(sender, view)

	c.Submit(context.Background(), "What are the statistics for Kerala?")

	msgs := view.Messages()
	require.Len(t, msgs, 2)

	assert.Equal(t, models.Message{
		ID:        "m1",
		Sender:    models.SenderUser,
		Kind:      models.KindText,
		Text:      "What are the statistics for Kerala?",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, msgs[0])

	assert.Equal(t, models.SenderBot, msgs[1].Sender)
	assert.Equal(t, models.KindText, msgs[1].Kind)
	assert.Equal(t, "State: Kerala\nTotal Crops: 42", msgs[1].Text)
	assert.False(t, msgs[1].Error)
	assert.True(t, view.InputEnabled())
	assert.True(t, view.Focused())
	assert.False(t, view.Loading())
}

func TestSubmit_TableAnswer(t *testing.T) {
	view := NewTranscript()
	c := newTestController(&api.MockClient{ChatVal: tableResponse()}, view)

	c.Submit(context.Background(), "q")

	last, ok := view.Last()
	require.True(t, ok)
	assert.True(t, last.IsTable())
	assert.Equal(t, []string{"city", "amount"}, last.Rows.Columns())
	assert.False(t, last.Error)
}

func TestSubmit_TableTypeWithTextPayload(t *testing.T) {
	view := NewTranscript()
	c := newTestController(&api.MockClient{ChatVal: &models.ChatResponse{
		Success:  true,
		Type:     models.ResponseTypeTable,
		Response: models.Payload{Present: true, Text: "No data found for state: Goa"},
	}}, view)

	c.Submit(context.Background(), "q")

	last, _ := view.Last()
	assert.False(t, last.IsTable())
	assert.Equal(t, "No data found for state: Goa", last.Text)
}

func TestSubmit_SoftFailure(t *testing.T) {
	tests := []struct {
		name     string
		payload  models.Payload
		opts     []Option
		wantText string
	}{
		{
			name:     "server text",
			payload:  models.Payload{Present: true, Text: "bad query"},
			wantText: "bad query",
		},
		{
			name:     "no text",
			payload:  models.Payload{},
			wantText: FallbackErrorText,
		},
		{
			name:     "custom fallback",
			payload:  models.Payload{Present: true, Text: ""},
			opts:     []Option{WithFallbackText("Something went wrong")},
			wantText: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewTranscript()
			sender := &api.MockClient{ChatVal: &models.ChatResponse{Success: false, Response: tt.payload}}
			c := newTestController(sender, view, tt.opts...)

			require.True(t, c.Submit(context.Background(), "q"))

			last, _ := view.Last()
			assert.Equal(t, tt.wantText, last.Text)
			assert.True(t, last.Error)
			assert.True(t, view.InputEnabled())
		})
	}
}

func TestSubmit_HardFailure(t *testing.T) {
	tests := []struct {
		name   string
		sender *api.MockClient
	}{
		{
			name: "network",
			sender: &api.MockClient{ChatErr: apierrors.NewNetworkError("post request",
				"http://localhost:5000/api/chat", errors.New("connection refused"))},
		},
		{
			name:   "parse",
			sender: &api.MockClient{ChatErr: apierrors.NewParseError("response is not valid JSON", "<html>")},
		},
		{
			name:   "nil response",
			sender: &api.MockClient{},
		},
		{
			name: "panic",
			sender: &api.MockClient{ChatFunc: func(ctx context.Context, query string) (*models.ChatResponse, error) {
				panic("boom")
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewTranscript()
			var outcome Outcome = -1
			c := newTestController(tt.sender, view, WithSettleHook(func(o Outcome) { outcome = o }))

			require.True(t, c.Submit(context.Background(), "q"))

			msgs := view.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, ConnectionErrorText, msgs[1].Text)
			assert.True(t, msgs[1].Error)
			assert.True(t, view.InputEnabled())
			assert.True(t, view.Focused())
			assert.False(t, view.Loading())
			assert.Equal(t, OutcomeHardFailure, outcome)
			assert.Equal(t, StateIdle, c.State())
		})
	}
}

func TestSubmit_BlankQueryIsNoop(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		sender := &api.MockClient{}
		view := NewTranscript()
		c := newTestController(sender, view)

		assert.False(t, c.Submit(context.Background(), q))
		assert.Empty(t, view.Events(), "query %q", q)
		assert.Zero(t, sender.CallCount())
	}
}

func TestSubmit_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	sender := &api.MockClient{ChatFunc: func(ctx context.Context, query string) (*models.ChatResponse, error) {
		close(entered)
		<-release
		return &models.ChatResponse{Success: true, Response: models.Payload{Present: true, Text: "ok"}}, nil
	}}
	view := NewTranscript()
	c := newTestController(sender, view)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Submit(context.Background(), "first")
	}()

	<-entered
	assert.True(t, c.Busy())
	assert.False(t, c.Submit(context.Background(), "second"))
	assert.False(t, c.SubmitExample(context.Background(), "third"))

	close(release)
	wg.Wait()

	assert.False(t, c.Busy())
	assert.Equal(t, 1, sender.CallCount())
	assert.Len(t, view.Messages(), 2)
	assert.Empty(t, view.Input(), "a rejected example must not touch the input")
}

func TestSubmit_SettleHookSeesIdle(t *testing.T) {
	view := NewTranscript()
	var c *Controller
	var stateAtSettle State = -1
	c = newTestController(&api.MockClient{ChatVal: tableResponse()}, view,
		WithSettleHook(func(Outcome) { stateAtSettle = c.State() }))

	c.Submit(context.Background(), "q")
	assert.Equal(t, StateIdle, stateAtSettle)
}

func TestSubmit_PassesContext(t *testing.T) {
	type key struct{}
	var got any
	sender := &api.MockClient{ChatFunc: func(ctx context.Context, query string) (*models.ChatResponse, error) {
		got = ctx.Value(key{})
		return nil, ctx.Err()
	}}
	c := newTestController(sender, NewTranscript())

	c.Submit(context.WithValue(context.Background(), key{}, "v"), "q")
	assert.Equal(t, "v", got)
}

func TestSubmitExample(t *testing.T) {
	sender := &api.MockClient{ChatVal: tableResponse()}
	view := NewTranscript()
	c := newTestController(sender, view)

	require.True(t, c.SubmitExample(context.Background(), "  Show me sales  "))

	events := view.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, EventSetInput, events[0])
	assert.Equal(t, []string{"Show me sales"}, sender.Queries)

	msgs := view.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Show me sales", msgs[0].Text)
	assert.Empty(t, view.Input(), "input is cleared once submitted")

	assert.False(t, c.SubmitExample(context.Background(), "   "))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "sending", StateSending.String())
	assert.Equal(t, "State(7)", State(7).String())
	assert.Equal(t, "soft_failure", OutcomeSoftFailure.String())
}
