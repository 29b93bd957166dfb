package checker

import (
	"fmt"
	"strings"
)

// Task selects which kinds of suggestions the model is asked for.
type Task string

const (
	TaskSpelling Task = "spelling"
	TaskGrammar  Task = "grammar"
	TaskBoth     Task = "both"
)

// ParseTask maps the request's suggestionType onto a Task. Empty means both.
func ParseTask(s string) (Task, error) {
	switch Task(strings.ToLower(strings.TrimSpace(s))) {
	case "", TaskBoth:
		return TaskBoth, nil
	case TaskSpelling:
		return TaskSpelling, nil
	case TaskGrammar:
		return TaskGrammar, nil
	default:
		return "", fmt.Errorf("%w: unknown suggestion type %q", ErrConfiguration, s)
	}
}

func (t Task) wantsSpelling() bool { return t == TaskSpelling || t == TaskBoth }
func (t Task) wantsGrammar() bool  { return t == TaskGrammar || t == TaskBoth }

// SpellingSuggestion is one misspelled token flagged by the model.
// WordIndex is the 0-based token position of Word in the checked text,
// nil when the word could not be located.
type SpellingSuggestion struct {
	Word           string `json:"word"`
	WordCorrection string `json:"word_correction"`
	Explanation    string `json:"explanation"`
	WordIndex      *int   `json:"word_index,omitempty"`
	EditDistance   int    `json:"edit_distance"`
}

// GrammarSuggestion is one grammatically flawed span. The indices bound the
// inclusive token range of Sentence in the checked text.
type GrammarSuggestion struct {
	Sentence         string `json:"sentence"`
	ImprovedSentence string `json:"improved_sentence"`
	Explanation      string `json:"explanation"`
	FirstWordIndex   *int   `json:"first_word_index,omitempty"`
	LastWordIndex    *int   `json:"last_word_index,omitempty"`
}

// SuggestionResponse is returned for every check. Both lists are always
// non-nil so they encode as JSON arrays.
type SuggestionResponse struct {
	SpellingSuggestions []SpellingSuggestion `json:"spelling_suggestions"`
	GrammarSuggestions  []GrammarSuggestion  `json:"grammar_suggestions"`
}
