package checker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/tidwall/gjson"
)

const (
	spellingKey = "spelling_suggestions"
	grammarKey  = "grammar_suggestions"
)

// PostProcess 解析模型输出并回填下标；找不到位置的建议保留但不带下标。
func PostProcess(raw, text string, task Task, log *slog.Logger) (SuggestionResponse, error) {
	resp, err := ParseSuggestions(raw, task, log)
	if err != nil {
		return SuggestionResponse{}, err
	}

	tokens := Tokenize(text)
	for i := range resp.SpellingSuggestions {
		s := &resp.SpellingSuggestions[i]
		s.WordIndex = nil
		if idx, ok := ResolveWordIndex(tokens, s.Word); ok {
			s.WordIndex = &idx
			resolutions.WithLabelValues("spelling", "hit").Inc()
		} else {
			resolutions.WithLabelValues("spelling", "miss").Inc()
			log.Debug("spelling suggestion not found in text", slog.String("word", s.Word))
		}
		s.EditDistance = levenshtein.ComputeDistance(s.Word, s.WordCorrection)
	}
	for i := range resp.GrammarSuggestions {
		g := &resp.GrammarSuggestions[i]
		g.FirstWordIndex, g.LastWordIndex = nil, nil
		if first, last, ok := ResolveSentenceRange(text, tokens, g.Sentence); ok {
			g.FirstWordIndex, g.LastWordIndex = &first, &last
			resolutions.WithLabelValues("grammar", "hit").Inc()
		} else {
			resolutions.WithLabelValues("grammar", "miss").Inc()
			log.Debug("grammar suggestion not found in text", slog.String("sentence", g.Sentence))
		}
	}
	return resp, nil
}

// ParseSuggestions 宽松解析：非 JSON 报 ErrUpstreamFormat，缺失的键按空列表处理。
func ParseSuggestions(raw string, task Task, log *slog.Logger) (SuggestionResponse, error) {
	resp := SuggestionResponse{
		SpellingSuggestions: []SpellingSuggestion{},
		GrammarSuggestions:  []GrammarSuggestion{},
	}

	content := stripMarkdownFence(raw)
	if content == "" || !gjson.Valid(content) {
		return resp, fmt.Errorf("%w: %q", ErrUpstreamFormat, truncate(content, 200))
	}
	root := gjson.Parse(content)

	if task.wantsSpelling() {
		resp.SpellingSuggestions = decodeList[SpellingSuggestion](root, spellingKey, log)
	}
	if task.wantsGrammar() {
		resp.GrammarSuggestions = decodeList[GrammarSuggestion](root, grammarKey, log)
	}
	return resp, nil
}

func decodeList[T any](root gjson.Result, key string, log *slog.Logger) []T {
	out := []T{}
	field := root.Get(key)
	if !field.Exists() {
		log.Warn("model output missing key", slog.String("key", key))
		return out
	}
	if !field.IsArray() {
		log.Warn("model output key is not a list", slog.String("key", key), slog.String("type", field.Type.String()))
		return out
	}
	for _, item := range field.Array() {
		var v T
		if err := json.Unmarshal([]byte(item.Raw), &v); err != nil {
			log.Warn("skipping undecodable suggestion", slog.String("key", key), slog.Any("error", err))
			continue
		}
		out = append(out, v)
	}
	return out
}

// Tokenize splits text on single spaces. Consecutive spaces yield empty tokens.
func Tokenize(text string) []string {
	return strings.Split(text, " ")
}

// ResolveWordIndex returns the index of the first token exactly equal to word.
func ResolveWordIndex(tokens []string, word string) (int, bool) {
	for i, tok := range tokens {
		if tok == word {
			return i, true
		}
	}
	return 0, false
}

// ResolveSentenceRange returns the inclusive token range of the first occurrence of sentence.
func ResolveSentenceRange(text string, tokens []string, sentence string) (first, last int, ok bool) {
	start := strings.Index(text, sentence)
	if start < 0 {
		return 0, 0, false
	}
	span := Tokenize(text[start : start+len(sentence)])
	n := len(span)
	for i := 0; i+n <= len(tokens); i++ {
		if tokens[i] != span[0] {
			continue
		}
		if slices.Equal(tokens[i:i+n], span) {
			return i, i + n - 1, true
		}
	}
	return 0, 0, false
}

// stripMarkdownFence removes optional ```json ... ``` wrapping from LLM output.
func stripMarkdownFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "..."
}
