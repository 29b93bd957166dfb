package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"llm_grammar_checker/checker"
	"llm_grammar_checker/config"
	"llm_grammar_checker/render"
	"llm_grammar_checker/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "grammar-checker",
		Short:         "Spelling and grammar suggestions from an OpenAI-compatible LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")

	load := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFile(configPath, true)
		}
		return config.Load()
	}

	root.AddCommand(newServeCmd(load), newCheckCmd(load))
	return root
}

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := NewLogger(cfg.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	providers := checker.NewProviders(cfg.Providers.BaseURLs())
	srv, err := server.New(providers, cfg, logger, BuildVersion())
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting web server",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", BuildVersion()),
			slog.Any("providers", providers.Names()),
		)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

type checkOpts struct {
	text     string
	provider string
	model    string
	key      string
	task     string
	mock     bool
	html     bool
}

func newCheckCmd(load func() (*config.Config, error)) *cobra.Command {
	var o checkOpts

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a single text and print the suggestions (reads stdin when --text is empty)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := NewLogger(cfg.Log)

			if o.text == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				o.text = strings.TrimRight(string(b), "\n")
			}
			return runCheck(cmd.Context(), cmd.OutOrStdout(), cfg, logger, o)
		},
	}
	cmd.Flags().StringVar(&o.text, "text", "", "text to check")
	cmd.Flags().StringVar(&o.provider, "provider", "", "provider name (default llm.default_provider)")
	cmd.Flags().StringVar(&o.model, "model", "", "model id (default llm.default_model)")
	cmd.Flags().StringVar(&o.key, "key", "", "provider API key (default $OPENAI_API_KEY)")
	cmd.Flags().StringVar(&o.task, "type", "both", "suggestion type: spelling | grammar | both")
	cmd.Flags().BoolVar(&o.mock, "mock", false, "use the offline mock model")
	cmd.Flags().BoolVar(&o.html, "html", false, "print a highlighted HTML view instead of JSON")
	return cmd
}

func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, o checkOpts) error {
	if strings.TrimSpace(o.text) == "" {
		return errors.New("no text to check")
	}
	task, err := checker.ParseTask(o.task)
	if err != nil {
		return err
	}

	var llm checker.LLMClient = checker.MockLLM{}
	if !o.mock {
		provider := firstNonEmpty(o.provider, cfg.LLM.DefaultProvider)
		llm, err = checker.NewProviders(cfg.Providers.BaseURLs()).Client(provider, firstNonEmpty(o.key, cfg.LLM.APIKey))
		if err != nil {
			return err
		}
	}
	agent, err := checker.NewAgent(llm, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.LLM.Timeout)
	defer cancel()
	resp, err := agent.Check(ctx, o.text, firstNonEmpty(o.model, cfg.LLM.DefaultModel), task)
	if err != nil {
		return err
	}

	if o.html {
		page, err := render.HTML(o.text, resp)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, page)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
