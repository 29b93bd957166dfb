package checker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	out    string
	err    error
	calls  int
	prompt Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p Prompt) (string, error) {
	f.calls++
	f.prompt = p
	return f.out, f.err
}

func TestNewAgent_RequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewAgent(nil, nil)
	require.Error(t, err)
}

func TestAgentCheck_Spelling(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{out: `{"spelling_suggestions": [{"word": "has", "word_correction": "have", "explanation": "agreement"}]}`}
	agent, err := NewAgent(llm, discardLogger())
	require.NoError(t, err)

	resp, err := agent.Check(context.Background(), "I has a good dog", "gpt-4-turbo", TaskSpelling)
	require.NoError(t, err)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "gpt-4-turbo", llm.prompt.Model)
	assert.Equal(t, "I has a good dog", llm.prompt.User)
	require.Len(t, resp.SpellingSuggestions, 1)
	assert.Equal(t, intPtr(1), resp.SpellingSuggestions[0].WordIndex)
	assert.Empty(t, resp.GrammarSuggestions)
}

func TestAgentCheck_Grammar(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{out: `{"grammar_suggestions": [{"sentence": "They goes to school", "improved_sentence": "They go to school", "explanation": "agreement"}]}`}
	agent, err := NewAgent(llm, discardLogger())
	require.NoError(t, err)

	resp, err := agent.Check(context.Background(), "They goes to school everyday", "m", TaskGrammar)
	require.NoError(t, err)

	require.Len(t, resp.GrammarSuggestions, 1)
	assert.Equal(t, intPtr(0), resp.GrammarSuggestions[0].FirstWordIndex)
	assert.Equal(t, intPtr(3), resp.GrammarSuggestions[0].LastWordIndex)
}

func TestAgentCheck_UpstreamErrorIsReturnedWhole(t *testing.T) {
	t.Parallel()

	upstream := errors.New("rate limited")
	llm := &fakeLLM{err: errors.Join(ErrUpstreamCall, upstream)}
	agent, err := NewAgent(llm, discardLogger())
	require.NoError(t, err)

	resp, err := agent.Check(context.Background(), "text", "m", TaskBoth)
	require.ErrorIs(t, err, ErrUpstreamCall)
	assert.Equal(t, 1, llm.calls, "no retry")
	assert.Nil(t, resp.SpellingSuggestions)
	assert.Nil(t, resp.GrammarSuggestions)
}

func TestAgentCheck_MalformedOutput(t *testing.T) {
	t.Parallel()

	agent, err := NewAgent(&fakeLLM{out: "Here are your suggestions!"}, discardLogger())
	require.NoError(t, err)

	_, err = agent.Check(context.Background(), "text", "m", TaskBoth)
	require.ErrorIs(t, err, ErrUpstreamFormat)
}

func TestAgentCheck_WithMockLLM(t *testing.T) {
	t.Parallel()

	agent, err := NewAgent(MockLLM{}, discardLogger())
	require.NoError(t, err)

	text := "Teh cat sat. It was happy."
	resp, err := agent.Check(context.Background(), text, "mock", TaskBoth)
	require.NoError(t, err)

	require.Len(t, resp.SpellingSuggestions, 1)
	assert.Equal(t, intPtr(0), resp.SpellingSuggestions[0].WordIndex)
	require.Len(t, resp.GrammarSuggestions, 1)
	assert.Equal(t, "Teh cat sat.", resp.GrammarSuggestions[0].Sentence)
	assert.Equal(t, intPtr(0), resp.GrammarSuggestions[0].FirstWordIndex)
	assert.Equal(t, intPtr(2), resp.GrammarSuggestions[0].LastWordIndex)
}

func TestBuildPrompt_NamesOnlyRequestedKeys(t *testing.T) {
	t.Parallel()

	spelling := BuildPrompt(TaskSpelling, "m", "x").System
	assert.Contains(t, spelling, spellingKey)
	assert.Contains(t, spelling, "word_correction")
	assert.NotContains(t, spelling, grammarKey)

	grammar := BuildPrompt(TaskGrammar, "m", "x").System
	assert.Contains(t, grammar, grammarKey)
	assert.Contains(t, grammar, "improved_sentence")
	assert.NotContains(t, grammar, spellingKey)

	both := BuildPrompt(TaskBoth, "m", "x").System
	assert.Contains(t, both, spellingKey)
	assert.Contains(t, both, grammarKey)
	assert.False(t, strings.Contains(both, "word_index"), "indices are computed locally")
}

func TestParseTask(t *testing.T) {
	t.Parallel()

	tests := map[string]Task{
		"":         TaskBoth,
		"both":     TaskBoth,
		"spelling": TaskSpelling,
		"Grammar":  TaskGrammar,
	}
	for in, want := range tests {
		got, err := ParseTask(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTask("style")
	assert.ErrorIs(t, err, ErrConfiguration)
}
