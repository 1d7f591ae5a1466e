package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/samarth-qa/samarth/internal/errors"
)

func newTestClient(t *testing.T, doer Doer, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{
		WithHTTPClient(doer),
		WithRequestIDFunc(func() string { return "req-1" }),
	}, opts...)
	client, err := NewClient("http://localhost:5000/", opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://host", "http://"} {
		_, err := NewClient(raw, WithHTTPClient(&MockDoer{}))
		assert.Error(t, err, "NewClient(%q)", raw)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := newTestClient(t, &MockDoer{})
	assert.Equal(t, "http://localhost:5000", client.ServerURL())
}

func TestChat_SendsQuery(t *testing.T) {
	doer := &MockDoer{Response: jsonResponse(200, `{"success":true,"type":"text","response":"hi"}`)}
	client := newTestClient(t, doer)

	resp, err := client.Chat(context.Background(), "Show top crops in Punjab")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "hi", resp.Response.Text)

	require.Len(t, doer.Requests, 1)
	req := doer.Requests[0]
	assert.Equal(t, fhttp.MethodPost, req.Method)
	assert.Equal(t, "http://localhost:5000/api/chat", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "req-1", req.Header.Get("X-Request-ID"))

	var sent map[string]string
	require.NoError(t, json.Unmarshal(doer.Bodies[0], &sent))
	assert.Equal(t, map[string]string{"query": "Show top crops in Punjab"}, sent)
}

func TestChat_ServerErrorWithJSONIsSoftFailure(t *testing.T) {
	doer := &MockDoer{Response: jsonResponse(500, `{"success":false,"response":"Sorry, an error occurred: boom","type":"error"}`)}
	client := newTestClient(t, doer)

	resp, err := client.Chat(context.Background(), "q")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Sorry, an error occurred: boom", resp.Response.Text)
}

func TestChat_NonJSONIsParseError(t *testing.T) {
	doer := &MockDoer{Response: jsonResponse(502, `<html>Bad Gateway</html>`)}
	client := newTestClient(t, doer)

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, apierrors.IsParseError(err))
}

func TestChat_NonObjectJSONIsSoftFailure(t *testing.T) {
	doer := &MockDoer{Response: jsonResponse(200, `[]`)}
	client := newTestClient(t, doer)

	resp, err := client.Chat(context.Background(), "q")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Response.String())
}

func TestChat_TransportError(t *testing.T) {
	doer := &MockDoer{Err: errors.New("dial tcp 127.0.0.1:5000: connect: connection refused")}
	client := newTestClient(t, doer)

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.Equal(t, "http://localhost:5000/api/chat", apierrors.GetEndpoint(err))
}

func TestChat_ReadError(t *testing.T) {
	body := NewMockResponseBody(nil)
	body.err = io.ErrUnexpectedEOF
	doer := &MockDoer{Response: &fhttp.Response{StatusCode: 200, Body: body, Header: make(fhttp.Header)}}
	client := newTestClient(t, doer)

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.True(t, body.closed, "response body should be closed")
}

func TestChat_Timeout(t *testing.T) {
	doer := &MockDoer{DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	}}
	client := newTestClient(t, doer, WithTimeout(10*time.Millisecond))

	_, err := client.Chat(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, apierrors.IsTimeoutError(err), "got %v", err)
}

func TestChat_NoTimeoutByDefault(t *testing.T) {
	var hadDeadline bool
	doer := &MockDoer{DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
		_, hadDeadline = req.Context().Deadline()
		return jsonResponse(200, `{"success":true,"response":"ok"}`), nil
	}}
	client := newTestClient(t, doer)

	_, err := client.Chat(context.Background(), "q")
	require.NoError(t, err)
	assert.False(t, hadDeadline)
}

func TestChat_Closed(t *testing.T) {
	doer := &MockDoer{}
	client := newTestClient(t, doer)
	client.Close()

	_, err := client.Chat(context.Background(), "q")
	assert.ErrorIs(t, err, apierrors.ErrClientClosed)
	assert.Empty(t, doer.Requests)
}

func TestExamples(t *testing.T) {
	doer := &MockDoer{Response: jsonResponse(200, `{"examples":["Show top crops in Punjab"]}`)}
	client := newTestClient(t, doer)

	examples, err := client.Examples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Show top crops in Punjab"}, examples)

	require.Len(t, doer.Requests, 1)
	assert.Equal(t, fhttp.MethodGet, doer.Requests[0].Method)
	assert.Equal(t, "http://localhost:5000/api/examples", doer.Requests[0].URL.String())
	assert.Empty(t, doer.Requests[0].Header.Get("Content-Type"))
}

func TestExamples_NotFound(t *testing.T) {
	doer := &MockDoer{Response: jsonResponse(404, `{}`)}
	client := newTestClient(t, doer)

	_, err := client.Examples(context.Background())
	require.Error(t, err)
	assert.Equal(t, 404, apierrors.GetHTTPStatus(err))
}
