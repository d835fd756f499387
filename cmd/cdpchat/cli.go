package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/cdpchat"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Store    *cdpchat.KnowledgeStore
	Failures []*cdpchat.CorpusLoadError

	// Responder is set for commands that answer questions.
	Responder cdpchat.Responder

	// TokenCounter is set when token counts were requested.
	TokenCounter cdpchat.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config      string        `short:"c" env:"CDPCHAT_CONFIG" type:"path" help:"YAML file listing platforms and their corpus locations"`
	Platform    []string      `short:"p" name:"platform" sep:"none" placeholder:"NAME=LOCATION" help:"Platform corpus location, overrides the config file (repeatable)"`
	DocsDir     string        `env:"CDPCHAT_DOCS_DIR" default:"docs" help:"Directory holding the default platform corpora"`
	EnvFile     string        `default:".env" help:"Dotenv file loaded before flags are read; a missing file is ignored"`
	APIKey      string        `env:"GEMINI_API_KEY" hidden:"" help:"Gemini API key"`
	Model       string        `env:"CDPCHAT_MODEL" default:"gemini-2.5-flash" help:"Gemini model used to extract answers"`
	QATimeout   time.Duration `name:"qa-timeout" env:"CDPCHAT_QA_TIMEOUT" default:"30s" help:"Timeout for a single answer lookup (0 disables)"`
	QARPS       float64       `name:"qa-rps" env:"CDPCHAT_QA_RPS" default:"0" help:"Answer lookups per second (0 disables limiting)"`
	Concurrency int           `env:"CDPCHAT_CONCURRENCY" default:"1" help:"Platforms looked up at once for comparisons and advanced questions"`
	Render      bool          `help:"Render web corpora in headless Chrome"`
	MaxPages    int           `env:"CDPCHAT_MAX_PAGES" default:"200" help:"Maximum pages read from a sitemap corpus (0 means no limit)"`
	FetchRPS    float64       `name:"fetch-rps" default:"2" help:"Page fetches per second per documentation host (0 disables limiting)"`
	Verbose     bool          `short:"v" help:"Log corpus loading and answer lookups"`

	Chat      ChatCmd      `cmd:"" default:"1" help:"Start an interactive session (default)"`
	Ask       AskCmd       `cmd:"" help:"Answer a single question and exit"`
	Platforms PlatformsCmd `cmd:"" help:"List the platforms and where their corpora were loaded from"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct{}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question []string `arg:"" help:"Question to ask"`
}

// PlatformsCmd is the "platforms" subcommand.
type PlatformsCmd struct {
	Tokens bool `help:"Count corpus tokens with the Gemini tokenizer"`
}
