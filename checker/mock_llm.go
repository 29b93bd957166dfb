package checker

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM 本地调试用，不调用外部模型；标记首个词和首句。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	out := map[string]any{}
	text := strings.TrimSpace(prompt.User)
	words := strings.Fields(text)

	if strings.Contains(prompt.System, spellingKey) {
		spelling := []map[string]string{}
		if len(words) > 0 {
			spelling = append(spelling, map[string]string{
				"word":            words[0],
				"word_correction": words[0],
				"explanation":     "mock suggestion",
			})
		}
		out[spellingKey] = spelling
	}
	if strings.Contains(prompt.System, grammarKey) {
		grammar := []map[string]string{}
		if sentence := firstSentence(text); sentence != "" {
			grammar = append(grammar, map[string]string{
				"sentence":          sentence,
				"improved_sentence": sentence,
				"explanation":       "mock suggestion",
			})
		}
		out[grammarKey] = grammar
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func firstSentence(text string) string {
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return strings.TrimSpace(text[:i+1])
	}
	return text
}
