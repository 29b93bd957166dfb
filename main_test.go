package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llm_grammar_checker/checker"
	"llm_grammar_checker/config"
)

func mockConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{DefaultProvider: "OpenAI", DefaultModel: "gpt-4-turbo", Timeout: time.Second},
		Providers: config.ProvidersConfig{
			OpenAIBaseURL:     "https://api.openai.com/v1",
			TogetherAIBaseURL: "https://api.together.xyz/v1",
			TelnyxBaseURL:     "https://api.telnyx.com/v2/ai",
		},
	}
}

func TestRunCheck_MockJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, mockConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		checkOpts{text: "Teh cat sat.", task: "both", mock: true})
	require.NoError(t, err)

	var resp checker.SuggestionResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.SpellingSuggestions, 1)
	assert.Equal(t, 0, *resp.SpellingSuggestions[0].WordIndex)
	require.Len(t, resp.GrammarSuggestions, 1)
	assert.Equal(t, 2, *resp.GrammarSuggestions[0].LastWordIndex)
}

func TestRunCheck_MockHTML(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := runCheck(context.Background(), &out, mockConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		checkOpts{text: "Teh cat sat.", task: "spelling", mock: true, html: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<strong>Teh</strong>")
}

func TestRunCheck_UnknownProvider(t *testing.T) {
	t.Parallel()

	err := runCheck(context.Background(), io.Discard, mockConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		checkOpts{text: "hi", task: "both", provider: "Acme", key: "sk"})
	require.ErrorIs(t, err, checker.ErrConfiguration)
}

func TestRunCheck_EmptyText(t *testing.T) {
	t.Parallel()

	err := runCheck(context.Background(), io.Discard, mockConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)),
		checkOpts{text: "  ", mock: true})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" warn "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLogger_TagsService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Info("hello")
	logger.Debug("dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, serviceName, rec["service"])
	assert.Equal(t, Version, rec["version"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNewLogger_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("hello")
	assert.Contains(t, buf.String(), "service="+serviceName)
	assert.Contains(t, buf.String(), "msg=hello")
}
