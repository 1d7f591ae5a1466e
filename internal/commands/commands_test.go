package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samarth-qa/samarth/internal/api"
	"github.com/samarth-qa/samarth/internal/chat"
	"github.com/samarth-qa/samarth/internal/config"
	apierrors "github.com/samarth-qa/samarth/internal/errors"
	"github.com/samarth-qa/samarth/internal/models"
	"github.com/samarth-qa/samarth/internal/tui"
)

type fakeTUI struct {
	configCfg   config.Config
	chatCalls   int
	chatOpts    tui.Options
	chatClient  api.ClientInterface
	configCalls int
	configPath  string
}

func (f *fakeTUI) RunChat(ctx context.Context, client api.ClientInterface, opts tui.Options) error {
	f.chatCalls++
	f.chatClient = client
	f.chatOpts = opts
	return nil
}

func (f *fakeTUI) RunConfig(cfg config.Config, configPath string) error {
	f.configCalls++
	f.configCfg = cfg
	f.configPath = configPath
	return nil
}

type harness struct {
	deps     *Dependencies
	client   *api.MockClient
	tui      *fakeTUI
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	stdin    *bytes.Buffer
	cfg      config.Config
	fileCfg  config.Config
	saved    []config.Config
	copied   []string
	clientCf config.Config
	piped    bool
	terminal bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		client: &api.MockClient{},
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		stdin:  &bytes.Buffer{},
		cfg:    config.DefaultConfig(),
	}
	h.cfg.LogFile = filepath.Join(t.TempDir(), "samarth.log")
	h.fileCfg = config.DefaultConfig()

	h.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger zerolog.Logger) (api.ClientInterface, error) {
			h.clientCf = cfg
			return h.client, nil
		},
		TUI:            h.tui,
		LoadConfig:     func() (config.Config, error) { return h.cfg, nil },
		LoadFileConfig: func() (config.Config, error) { return h.fileCfg, nil },
		SaveConfig: func(c config.Config) error {
			h.saved = append(h.saved, c)
			return nil
		},
		ConfigPath: func() (string, error) { return "/home/u/.samarth/config.json", nil },
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		Stdin:      h.stdin,
		Stdout:     h.stdout,
		Stderr:     h.stderr,
		IsTerminal: func() bool { return h.terminal },
		StdinPiped: func() bool { return h.piped },
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCmd(h.deps)
	cmd.SetOut(h.stdout)
	cmd.SetErr(h.stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func textAnswer(text string) *models.ChatResponse {
	return &models.ChatResponse{
		Success:  true,
		Type:     "text",
		Response: models.Payload{Present: true, Text: text},
	}
}

func tableAnswer() *models.ChatResponse {
	row := models.NewRow()
	row.Set("city", models.StringValue("Pune"))
	row.Set("amount", models.NumberValue(150000))
	return &models.ChatResponse{
		Success:  true,
		Type:     "table",
		Response: models.Payload{Present: true, IsRows: true, Rows: models.Table{row}},
	}
}

func TestRootCommand_Version(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("-v"))
	assert.Contains(t, h.stdout.String(), "samarth "+Version)
	assert.Zero(t, h.client.CallCount())
}

func TestRootCommand_HelpWithoutQuery(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run())
	assert.Contains(t, h.stdout.String(), "Usage:")
	assert.Zero(t, h.client.CallCount())
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCmd(newHarness(t).deps)

	for _, name := range []string{"server", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag %s", name)
	}
	for _, name := range []string{"output", "file", "html", "copy", "version"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}

	var subs []string
	for _, c := range cmd.Commands() {
		subs = append(subs, c.Name())
	}
	assert.Subset(t, subs, []string{"chat", "examples", "config"})
}

func TestQuery_PipedOutputIsRaw(t *testing.T) {
	h := newHarness(t)
	h.client.ChatVal = textAnswer("State: Kerala\nTotal Crops: 42")

	require.NoError(t, h.run("  What are the statistics for Kerala?  "))

	assert.Equal(t, []string{"What are the statistics for Kerala?"}, h.client.Queries)
	assert.Equal(t, "State: Kerala\nTotal Crops: 42\n", h.stdout.String())
	assert.True(t, h.client.CloseCalled)
}

func TestQuery_TerminalTranscript(t *testing.T) {
	h := newHarness(t)
	h.terminal = true
	h.client.ChatVal = tableAnswer()

	require.NoError(t, h.run("Show me sales"))

	out := h.stdout.String()
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Show me sales")
	assert.Contains(t, out, "Samarth")
	assert.Contains(t, out, "City")
	assert.Contains(t, out, "1,50,000")
}

func TestQuery_HTML(t *testing.T) {
	h := newHarness(t)
	h.client.ChatVal = tableAnswer()

	require.NoError(t, h.run("<b>sales</b>", "--html"))

	out := h.stdout.String()
	assert.Contains(t, out, `id="chatMessages"`)
	assert.Contains(t, out, "&lt;b&gt;sales&lt;/b&gt;")
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "<th>Amount</th>")
	assert.Contains(t, out, "1,50,000")
}

func TestQuery_OutputFile(t *testing.T) {
	h := newHarness(t)
	h.client.ChatVal = tableAnswer()
	path := filepath.Join(t.TempDir(), "answer.tsv")

	require.NoError(t, h.run("sales", "-o", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "city\tamount\nPune\t150000\n", string(data))
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "Answer saved to")
}

func TestQuery_Copy(t *testing.T) {
	h := newHarness(t)
	h.client.ChatVal = textAnswer("42")

	require.NoError(t, h.run("answer", "--copy"))
	assert.Equal(t, []string{"42"}, h.copied)
	assert.Contains(t, h.stderr.String(), "Copied to clipboard")

	h = newHarness(t)
	h.client.ChatVal = textAnswer("42")
	h.deps.Copy = func(string) error { return errors.New("no clipboard") }
	require.NoError(t, h.run("answer", "--copy"))
	assert.Contains(t, h.stderr.String(), "Failed to copy to clipboard")
}

func TestQuery_CopyFromConfig(t *testing.T) {
	h := newHarness(t)
	h.cfg.CopyToClipboard = true
	h.client.ChatVal = textAnswer("42")

	require.NoError(t, h.run("answer"))
	assert.Equal(t, []string{"42"}, h.copied)
}

func TestQuery_FromStdin(t *testing.T) {
	h := newHarness(t)
	h.piped = true
	h.stdin.WriteString("Compare rainfall in Kerala and Tamil Nadu\n")
	h.client.ChatVal = textAnswer("ok")

	require.NoError(t, h.run())
	assert.Equal(t, []string{"Compare rainfall in Kerala and Tamil Nadu"}, h.client.Queries)
}

func TestQuery_FromFile(t *testing.T) {
	h := newHarness(t)
	h.client.ChatVal = textAnswer("ok")
	path := filepath.Join(t.TempDir(), "q.txt")
	require.NoError(t, os.WriteFile(path, []byte("Show top crops in Punjab"), 0o600))

	require.NoError(t, h.run("-f", path))
	assert.Equal(t, []string{"Show top crops in Punjab"}, h.client.Queries)

	err := h.run("-f", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestQuery_Blank(t *testing.T) {
	h := newHarness(t)
	err := h.run("   ")
	assert.ErrorIs(t, err, apierrors.ErrEmptyQuery)
	assert.Zero(t, h.client.CallCount())
}

func TestQuery_Failures(t *testing.T) {
	tests := []struct {
		name string
		val  *models.ChatResponse
		err  error
		want string
	}{
		{
			name: "soft failure",
			val:  &models.ChatResponse{Success: false, Response: models.Payload{Present: true, Text: "bad query"}},
			want: "bad query\n",
		},
		{
			name: "hard failure",
			err:  apierrors.NewNetworkError("post request", "http://localhost:5000/api/chat", errors.New("refused")),
			want: chat.ConnectionErrorText + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.client.ChatVal = tt.val
			h.client.ChatErr = tt.err

			err := h.run("q")
			assert.ErrorIs(t, err, errAnswered)
			assert.Equal(t, tt.want, h.stdout.String())
		})
	}
}

func TestQuery_ServerFlag(t *testing.T) {
	h := newHarness(t)
	h.client.ChatVal = textAnswer("ok")

	require.NoError(t, h.run("q", "--server", "http://10.0.0.5:5000/", "--verbose"))
	assert.Equal(t, "http://10.0.0.5:5000", h.clientCf.ServerURL)
	assert.True(t, h.clientCf.Verbose)

	err := newHarness(t).run("q", "--server", "localhost")
	assert.ErrorContains(t, err, "invalid --server")
}

func TestQuery_ConfigLoadError(t *testing.T) {
	h := newHarness(t)
	h.deps.LoadConfig = func() (config.Config, error) {
		return config.DefaultConfig(), errors.New("bad json")
	}
	err := h.run("q")
	assert.ErrorContains(t, err, "failed to load config")
}

func TestChatCommand(t *testing.T) {
	h := newHarness(t)
	h.cfg.Examples = []string{"Show top crops in Punjab"}

	require.NoError(t, h.run("chat"))

	require.Equal(t, 1, h.tui.chatCalls)
	assert.Same(t, h.client, h.tui.chatClient)
	assert.Equal(t, []string{"Show top crops in Punjab"}, h.tui.chatOpts.Examples)
	assert.NotNil(t, h.tui.chatOpts.Renderer)
	assert.NotNil(t, h.tui.chatOpts.Copy)
	assert.True(t, h.client.CloseCalled)

	_, err := os.Stat(h.cfg.LogFile)
	assert.NoError(t, err, "chat should log to the log file")
}

func TestExamplesCommand(t *testing.T) {
	h := newHarness(t)
	h.client.ExamplesVal = []string{"Show top crops in Punjab", "Compare rainfall"}

	require.NoError(t, h.run("examples"))
	assert.Equal(t, "Show top crops in Punjab\nCompare rainfall\n", h.stdout.String())
}

func TestExamplesCommand_Terminal(t *testing.T) {
	h := newHarness(t)
	h.terminal = true
	h.client.ExamplesVal = []string{"Show top crops in Punjab"}

	require.NoError(t, h.run("examples"))
	assert.Contains(t, h.stdout.String(), "1. Show top crops in Punjab")
	assert.Contains(t, h.stderr.String(), "1 examples from http://mock")
}

func TestExamplesCommand_Fallback(t *testing.T) {
	h := newHarness(t)
	h.client.ExamplesErr = apierrors.NewAPIError(404, "http://localhost:5000/api/examples", "Not Found")

	require.NoError(t, h.run("examples"))
	assert.Equal(t, strings.Join(models.DefaultExamples, "\n")+"\n", h.stdout.String())

	h = newHarness(t)
	h.client.ExamplesErr = errors.New("down")
	h.cfg.Examples = []string{"Local question"}
	require.NoError(t, h.run("examples"))
	assert.Equal(t, "Local question\n", h.stdout.String())
}

func TestConfigCommand(t *testing.T) {
	t.Run("menu", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("config"))
		assert.Equal(t, 1, h.tui.configCalls)
		assert.Equal(t, "/home/u/.samarth/config.json", h.tui.configPath)
	})

	t.Run("show", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("config", "show"))
		assert.Contains(t, h.stdout.String(), `"server_url": "http://localhost:5000"`)
		assert.Contains(t, h.stdout.String(), `"locale": "en-IN"`)
	})

	t.Run("set", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("config", "set", "request_timeout_seconds", "30"))
		require.Len(t, h.saved, 1)
		assert.Equal(t, 30, h.saved[0].RequestTimeout)
		assert.Equal(t, "request_timeout_seconds = 30\n", h.stdout.String())
	})

	t.Run("set invalid", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("config", "set", "locale", "not a locale!")
		assert.Error(t, err)
		assert.Empty(t, h.saved)

		err = h.run("config", "set", "unknown", "x")
		assert.ErrorContains(t, err, "unknown config key")
	})

	t.Run("set keeps environment overrides out of the file", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.ServerURL = "http://staging.example:9000"

		require.NoError(t, h.run("config", "set", "verbose", "true"))
		require.Len(t, h.saved, 1)
		assert.Equal(t, config.DefaultServerURL, h.saved[0].ServerURL)
		assert.True(t, h.saved[0].Verbose)
	})

	t.Run("menu edits the file config", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.ServerURL = "http://staging.example:9000"

		require.NoError(t, h.run("config"))
		assert.Equal(t, config.DefaultServerURL, h.tui.configCfg.ServerURL)
	})

	t.Run("path", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run("config", "path"))
		assert.Equal(t, "/home/u/.samarth/config.json\n", h.stdout.String())
	})
}
