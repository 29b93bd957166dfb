package checker

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Agent 对一段文本发起一次检查：构造提示词、调用一次模型、回填下标。
type Agent struct {
	llm LLMClient
	log *slog.Logger
}

func NewAgent(llm LLMClient, log *slog.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Agent{llm: llm, log: log}, nil
}

// Check 只调用一次模型，失败不重试。
func (a *Agent) Check(ctx context.Context, text, model string, task Task) (SuggestionResponse, error) {
	prompt := BuildPrompt(task, model, text)

	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	llmDuration.WithLabelValues(string(task)).Observe(time.Since(start).Seconds())
	if err != nil {
		checksTotal.WithLabelValues(string(task), "call_error").Inc()
		return SuggestionResponse{}, err
	}

	resp, err := PostProcess(raw, text, task, a.log)
	if err != nil {
		checksTotal.WithLabelValues(string(task), "format_error").Inc()
		return SuggestionResponse{}, err
	}
	checksTotal.WithLabelValues(string(task), "ok").Inc()

	a.log.Debug("check complete",
		slog.String("model", model),
		slog.String("task", string(task)),
		slog.Int("spelling", len(resp.SpellingSuggestions)),
		slog.Int("grammar", len(resp.GrammarSuggestions)),
	)
	return resp, nil
}
