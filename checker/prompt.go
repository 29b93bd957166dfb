package checker

import "strings"

// Prompt is the message set sent to the LLM for one check.
type Prompt struct {
	Model  string
	System string
	User   string
}

const promptPreamble = `You are a helpful grammar assistant. You take in sequences of text and determine if any words are misspelled or if any sentences use incorrect grammar. Only respond in the JSON format specified. Copy flagged words and sentences exactly as they appear in the text, without changing case, spacing or punctuation.
`

const spellingInstructions = `
For each misspelled word give the word (exactly as written in the text), word_correction (the corrected word), and an explanation of why the word is likely to be incorrect.
`

const grammarInstructions = `
For each sentence with a grammar mistake give the sentence (exactly as written in the text), improved_sentence (the corrected sentence), and an explanation of why the sentence is grammatically incorrect.
`

const spellingExample = `    "spelling_suggestions": [
        {
            "word": "financail",
            "word_correction": "financial",
            "explanation": "The word is likely to be financial based on the context talking about money and the similar spelling."
        }
    ]`

const grammarExample = `    "grammar_suggestions": [
        {
            "sentence": "They goes to school",
            "improved_sentence": "They go to school",
            "explanation": "The plural subject 'They' takes the verb form 'go', not 'goes'."
        }
    ]`

// BuildPrompt 生成检查提示词，只列出 task 需要的键。
func BuildPrompt(task Task, model, text string) Prompt {
	var sb strings.Builder
	sb.WriteString(promptPreamble)
	if task.wantsSpelling() {
		sb.WriteString(spellingInstructions)
	}
	if task.wantsGrammar() {
		sb.WriteString(grammarInstructions)
	}

	var keys []string
	if task.wantsSpelling() {
		keys = append(keys, spellingExample)
	}
	if task.wantsGrammar() {
		keys = append(keys, grammarExample)
	}
	sb.WriteString("\nIf there is nothing to report return empty lists. Here is an example:\n{\n")
	sb.WriteString(strings.Join(keys, ",\n"))
	sb.WriteString("\n}\n")

	return Prompt{
		Model:  model,
		System: sb.String(),
		User:   text,
	}
}
