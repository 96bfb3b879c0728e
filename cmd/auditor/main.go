// Command auditor is the Dunder Mifflin audit chatbot CLI.
//
// Usage:
//
//	auditor ingest --config config.yaml
//	auditor chat
//	auditor ask "Quais gastos do Michael violam as regras?"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/agent"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/cli"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/config"
	"github.com/Gustavo-daCosta/Auditory-Chatbot/pkg/runtime"
)

// CLI defines the command-line interface.
type CLI struct {
	Chat    ChatCmd    `cmd:"" default:"1" help:"Start the interactive audit console."`
	Ask     AskCmd     `cmd:"" help:"Ask one question and exit."`
	Ingest  IngestCmd  `cmd:"" help:"Index the corpora into the vector store."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	Config   string `short:"c" help:"Path to config file." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info"`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("auditor version %s\n", version)
	return nil
}

// ChatCmd runs the interactive console. Corpora not yet indexed are ingested
// on startup.
type ChatCmd struct{}

func (c *ChatCmd) Run(cli *CLI) error {
	ctx := shutdownContext()

	rt, err := newRuntime(cli)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := rt.Indexer().IngestAll(ctx, rt.Config().Corpora, false); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	return newREPL(rt).Run(ctx)
}

// AskCmd answers a single question, for scripted use.
type AskCmd struct {
	Question []string `arg:"" help:"The question to investigate."`
}

func (c *AskCmd) Run(cli *CLI) error {
	ctx := shutdownContext()

	rt, err := newRuntime(cli)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := rt.Indexer().IngestAll(ctx, rt.Config().Corpora, false); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	result, err := rt.Agent().Run(ctx, strings.Join(c.Question, " "))
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	if result.Status == agent.StatusExhausted {
		slog.Warn("Reasoning budget exhausted, answer is partial")
	}
	return nil
}

// IngestCmd builds or rebuilds the vector index.
type IngestCmd struct {
	Force bool `help:"Reindex even if the collections are already populated."`
}

func (c *IngestCmd) Run(cli *CLI) error {
	ctx := shutdownContext()

	rt, err := newRuntime(cli)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	return rt.Indexer().IngestAll(ctx, rt.Config().Corpora, c.Force)
}

func newREPL(rt *runtime.Runtime) *cli.REPL {
	return cli.NewREPL(rt.Agent())
}

func newRuntime(c *CLI) (*runtime.Runtime, error) {
	config.LoadDotEnv()

	var cfg *config.Config
	var err error
	if c.Config != "" {
		cfg, err = config.LoadFromFile(c.Config)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	return runtime.New(cfg)
}

func closeRuntime(rt *runtime.Runtime) {
	if err := rt.Close(); err != nil {
		slog.Warn("Cleanup failed", "error", err)
	}
}

func shutdownContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	return ctx
}

func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func main() {
	var c CLI
	kctx := kong.Parse(&c,
		kong.Name("auditor"),
		kong.Description("Investigative audit agent for compliance, emails and transactions."),
		kong.UsageOnError(),
	)

	setupLogging(c.LogLevel)

	if err := kctx.Run(&c); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
