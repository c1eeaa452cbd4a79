package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	main "docchat/cmd/docchat"
	"docchat/pkg/ai"
	"docchat/pkg/config"
	"docchat/pkg/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelayClient struct {
	reply string
	err   error
	got   []widget.RelayRequest
}

func (f *fakeRelayClient) Send(_ context.Context, req widget.RelayRequest) (string, error) {
	f.got = append(f.got, req)
	return f.reply, f.err
}

func askDeps(apiKey string, client widget.RelayClient) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	cfg := config.Default()
	cfg.Widget.APIKey = apiKey
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:         context.Background(),
		Stdout:      stdout,
		Stderr:      stderr,
		Config:      cfg,
		RelayClient: client,
	}, stdout, stderr
}

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("sends question and prints reply", func(t *testing.T) {
		t.Parallel()

		client := &fakeRelayClient{reply: "Use POST /v1/transfers."}
		deps, stdout, _ := askDeps("sk-test", client)

		cmd := &main.AskCmd{Question: "How do I send money?"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Use POST /v1/transfers.")
		require.Len(t, client.got, 1)
		msgs := client.got[0].Messages
		require.Len(t, msgs, 2)
		assert.Equal(t, ai.RoleSystem, msgs[0].Role)
		assert.Equal(t, ai.Message{Role: ai.RoleUser, Content: "How do I send money?"}, msgs[1])
	})

	t.Run("empty reply prints placeholder", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := askDeps("sk-test", &fakeRelayClient{})
		cmd := &main.AskCmd{Question: "hello"}
		require.NoError(t, cmd.Run(deps))
		assert.Contains(t, stdout.String(), widget.EmptyReplyText)
	})

	t.Run("missing credential sends nothing", func(t *testing.T) {
		t.Parallel()

		client := &fakeRelayClient{reply: "unused"}
		deps, stdout, stderr := askDeps("", client)

		cmd := &main.AskCmd{Question: "hello"}
		require.Error(t, cmd.Run(deps))
		assert.Empty(t, client.got)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), config.EnvOpenAIKey)
	})

	t.Run("blank question sends nothing", func(t *testing.T) {
		t.Parallel()

		client := &fakeRelayClient{}
		deps, _, _ := askDeps("sk-test", client)

		cmd := &main.AskCmd{Question: "   "}
		require.Error(t, cmd.Run(deps))
		assert.Empty(t, client.got)
	})

	t.Run("relay failure is reported", func(t *testing.T) {
		t.Parallel()

		relayErr := &widget.StatusError{StatusCode: 500, Message: "Failed to get response from OpenAI"}
		deps, stdout, stderr := askDeps("sk-test", &fakeRelayClient{err: relayErr})

		cmd := &main.AskCmd{Question: "hello"}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.True(t, errors.Is(err, widget.ErrRelayStatus))
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Failed to get response")
	})
}

func TestWidgetCmd_RequiresTerminal(t *testing.T) {
	t.Parallel()

	deps, _, _ := askDeps("sk-test", &fakeRelayClient{})
	deps.IsTerminal = func() bool { return false }

	cmd := &main.WidgetCmd{}
	require.Error(t, cmd.Run(deps))
}

func TestVersionCmd_Run(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := askDeps("", nil)
	require.NoError(t, (&main.VersionCmd{}).Run(deps))
	assert.Contains(t, stdout.String(), "docchat")
}
