// Package render turns a checked text and its suggestions into a highlighted
// view, mirroring what the front-end does with the token indices.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"llm_grammar_checker/checker"
)

const nbsp = "&nbsp;"

// Segment is one token of the checked text with the suggestions that cover it.
type Segment struct {
	Index    int
	Text     string
	Spelling *checker.SpellingSuggestion
	Grammar  *checker.GrammarSuggestion
}

// Annotate splits text into tokens and attaches suggestions by index. When
// several suggestions cover a token the first one in the response wins.
// Suggestions with out-of-range indices are ignored.
func Annotate(text string, resp checker.SuggestionResponse) []Segment {
	tokens := checker.Tokenize(text)
	segs := make([]Segment, len(tokens))
	for i, tok := range tokens {
		segs[i] = Segment{Index: i, Text: tok}
	}

	for i := range resp.SpellingSuggestions {
		s := &resp.SpellingSuggestions[i]
		if s.WordIndex == nil || *s.WordIndex < 0 || *s.WordIndex >= len(segs) {
			continue
		}
		if segs[*s.WordIndex].Spelling == nil {
			segs[*s.WordIndex].Spelling = s
		}
	}
	for i := range resp.GrammarSuggestions {
		g := &resp.GrammarSuggestions[i]
		if g.FirstWordIndex == nil || g.LastWordIndex == nil {
			continue
		}
		first, last := *g.FirstWordIndex, *g.LastWordIndex
		if first < 0 || last >= len(segs) || first > last {
			continue
		}
		for j := first; j <= last; j++ {
			if segs[j].Grammar == nil {
				segs[j].Grammar = g
			}
		}
	}
	return segs
}

// Markdown renders the annotated text followed by a list of suggestions.
// Spelling hits are bold, grammar spans are italic.
func Markdown(text string, resp checker.SuggestionResponse) string {
	var sb strings.Builder
	sb.WriteString("## Text\n\n")

	segs := Annotate(text, resp)
	for i, seg := range segs {
		if i > 0 {
			sb.WriteString(" ")
		}
		opensGrammar := seg.Grammar != nil && (i == 0 || segs[i-1].Grammar != seg.Grammar)
		closesGrammar := seg.Grammar != nil && (i == len(segs)-1 || segs[i+1].Grammar != seg.Grammar)
		if opensGrammar {
			sb.WriteString("_")
		}
		tok := escape(seg.Text)
		if seg.Text == "" {
			// Empty tokens come from leading, trailing or doubled spaces.
			tok = nbsp
		} else if seg.Spelling != nil {
			tok = "**" + tok + "**"
		}
		sb.WriteString(tok)
		if closesGrammar {
			sb.WriteString("_")
		}
	}
	sb.WriteString("\n")

	if len(resp.SpellingSuggestions) > 0 {
		sb.WriteString("\n## Spelling\n\n")
		for _, s := range resp.SpellingSuggestions {
			fmt.Fprintf(&sb, "- %s → %s: %s%s\n",
				emphasize(s.Word, "**"), emphasize(s.WordCorrection, "**"), escape(s.Explanation), locatedNote(s.WordIndex != nil))
		}
	}
	if len(resp.GrammarSuggestions) > 0 {
		sb.WriteString("\n## Grammar\n\n")
		for _, g := range resp.GrammarSuggestions {
			fmt.Fprintf(&sb, "- %s → %s: %s%s\n",
				emphasize(g.Sentence, "_"), emphasize(g.ImprovedSentence, "_"), escape(g.Explanation), locatedNote(g.FirstWordIndex != nil))
		}
	}
	return sb.String()
}

// HTML renders Markdown(text, resp) to an HTML fragment.
func HTML(text string, resp checker.SuggestionResponse) (string, error) {
	return mdToHTML(Markdown(text, resp))
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// emphasize wraps s in marker. Edge spaces become non-breaking so the
// delimiters stay flanking; an empty value has nothing to emphasize.
func emphasize(s, marker string) string {
	if s == "" {
		return "(empty)"
	}
	core := strings.TrimLeft(s, " ")
	lead := len(s) - len(core)
	trimmed := strings.TrimRight(core, " ")
	trail := len(core) - len(trimmed)
	return marker + strings.Repeat(nbsp, lead) + escape(trimmed) + strings.Repeat(nbsp, trail) + marker
}

func locatedNote(located bool) string {
	if located {
		return ""
	}
	return " (not located in text)"
}

// escape backslash-escapes ASCII punctuation so user text is never read as markup.
func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 128 && strings.ContainsRune("\\`*_{}[]()#+-.!|<>&~=\"'", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
