package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/nguyenvanduocit/claude-quickstart/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand(LoadConfig()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claude-quickstart",
		Short: "Ask a hosted language model one question and print the reply",
		Long: "Reads a question from standard input, sends it to the configured model and prints the reply.\n" +
			"The API key is read from ANTHROPIC_API_KEY (a .env file in the working directory is loaded first).",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.LLM.Provider, "provider", cfg.LLM.Provider, "model provider: claude, openai or bridge")
	flags.StringVar(&cfg.LLM.Model, "model", cfg.LLM.Model, "model name, empty for the provider default")
	flags.IntVar(&cfg.LLM.MaxTokens, "max-tokens", cfg.LLM.MaxTokens, "maximum tokens in the reply")
	flags.Float64Var(&cfg.LLM.Temperature, "temperature", cfg.LLM.Temperature, "sampling temperature (openai sends 0 as the smallest non-zero value)")
	flags.StringVar(&cfg.LLM.SystemPrompt, "system", cfg.LLM.SystemPrompt, "system prompt")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout for each question")
	flags.BoolVar(&cfg.Batch, "batch", cfg.Batch, "ask every input line as a separate question")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent questions in batch mode")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "debug logging")

	return cmd
}

func newLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Verbose {
		return zap.NewDevelopment()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level
	return zapConfig.Build()
}

func run(ctx context.Context, cfg Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return ask(ctx, cfg, logger)
}

func ask(ctx context.Context, cfg Config, logger *zap.Logger) error {
	client, err := llm.New(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}

	if cfg.Batch {
		cached, err := llm.NewCachedClient(client, cfg.LLM.SystemPrompt, logger)
		if err != nil {
			client.Close()
			return err
		}
		client = cached
	}
	defer client.Close()

	runner := &Runner{
		In:      os.Stdin,
		Out:     os.Stdout,
		Client:  client,
		Logger:  logger,
		Timeout: cfg.Timeout,
		Workers: cfg.Workers,
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, "", logger)
		if err != nil {
			logger.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			runner.Notifier = notifier
		}
	}

	logger.Info("asking",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("batch", cfg.Batch),
	)

	if cfg.Batch {
		return runner.Batch(ctx)
	}
	return runner.Ask(ctx)
}
