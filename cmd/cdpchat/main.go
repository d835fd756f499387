package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/cdpchat"
	"github.com/fwojciec/cdpchat/assist"
	"github.com/fwojciec/cdpchat/corpus"
	cdpfs "github.com/fwojciec/cdpchat/fs"
	"github.com/fwojciec/cdpchat/gemini"
	"github.com/fwojciec/cdpchat/goquery"
	"github.com/fwojciec/cdpchat/htmltomarkdown"
	cdphttp "github.com/fwojciec/cdpchat/http"
	"github.com/fwojciec/cdpchat/readability"
	"github.com/fwojciec/cdpchat/rod"
	cdpslog "github.com/fwojciec/cdpchat/slog"
	"github.com/fwojciec/cdpchat/sqlite"
	"github.com/fwojciec/cdpchat/trafilatura"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", cdpchat.ErrorMessage(err))
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. Nil fields are built from flags.
	QA           cdpchat.ExtractiveQA
	Loader       cdpchat.CorpusLoader
	TokenCounter cdpchat.TokenCounter

	closers []io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the browser and any other resources opened by Run.
func (m *Main) Close() error {
	var errs []error
	for _, c := range slices.Backward(m.closers) {
		errs = append(errs, c.Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := loadEnvFile(envFileArg(args)); err != nil {
		return err
	}

	cli := &CLI{}
	helped := false
	parser, err := kong.New(cli,
		kong.Name("cdpchat"),
		kong.Description("Answers how-to questions about customer data platforms from their documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { helped = true }), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Kong prints command help itself; parsing then continues, so stop here.
	kongCtx, err := parser.Parse(args)
	if helped {
		return nil
	}
	if err != nil {
		return err
	}
	command := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}
	defer m.Close()

	// The answering backend is checked before any corpus is loaded.
	var qa cdpchat.ExtractiveQA
	if command == "chat" || command == "ask" {
		if qa, err = m.extractiveQA(ctx, cli, logger); err != nil {
			return err
		}
	}

	sources, err := m.sources(cli)
	if err != nil {
		return err
	}
	loader, err := m.corpusLoader(cli, sources, logger)
	if err != nil {
		return err
	}
	deps.Store, deps.Failures = cdpchat.LoadKnowledgeStore(ctx, loader, sources, logger)
	if err := ctx.Err(); err != nil {
		return err
	}

	if qa != nil {
		a := &assist.Assistant{
			Store:       deps.Store,
			QA:          qa,
			Timeout:     cli.QATimeout,
			Concurrency: cli.Concurrency,
		}
		if cli.QARPS > 0 {
			a.Limiter = rate.NewLimiter(rate.Limit(cli.QARPS), 1)
		}
		deps.Responder = a
	}

	if command == "platforms" && cli.Platforms.Tokens {
		deps.TokenCounter = m.TokenCounter
		if deps.TokenCounter == nil {
			if deps.TokenCounter, err = gemini.NewTokenCounter(cli.Model); err != nil {
				return err
			}
		}
	}

	return kongCtx.Run(deps)
}

// extractiveQA returns the injected QA or connects to Gemini.
func (m *Main) extractiveQA(ctx context.Context, cli *CLI, logger *slog.Logger) (cdpchat.ExtractiveQA, error) {
	qa := m.QA
	if qa == nil {
		if cli.APIKey == "" {
			return nil, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, cdpchat.Errorf(cdpchat.EUNAVAILABLE, "failed to connect to Gemini API: %v", err)
		}
		qa = gemini.NewQA(client, cli.Model)
	}

	if cli.Verbose {
		qa = cdpslog.NewLoggingQA(qa, logger)
	}
	return qa, nil
}

func (m *Main) sources(cli *CLI) ([]cdpchat.CorpusSource, error) {
	var cfg *Config
	if cli.Config != "" {
		var err error
		if cfg, err = LoadConfig(cli.Config); err != nil {
			return nil, err
		}
	}
	return ResolveSources(DefaultSources(cli.DocsDir), cfg, cli.Platform)
}

// corpusLoader returns the injected loader or wires one for the location
// forms in sources. The browser is only launched when a web corpus needs it.
func (m *Main) corpusLoader(cli *CLI, sources []cdpchat.CorpusSource, logger *slog.Logger) (cdpchat.CorpusLoader, error) {
	loader := m.Loader
	if loader == nil {
		l := &corpus.Loader{
			Files:     cdpfs.NewReader(),
			Databases: sqlite.NewSource(),
			Extractors: []cdpchat.Extractor{
				trafilatura.NewExtractor(),
				readability.NewExtractor(),
				goquery.NewExtractor(),
			},
			Converter:   htmltomarkdown.NewConverter(),
			Sitemaps:    cdphttp.NewSitemapService(nil),
			RateLimiter: corpus.NewDomainLimiter(cli.FetchRPS),
			Concurrency: corpus.DefaultConcurrency,
			MaxPages:    cli.MaxPages,
			Logger:      logger,
		}

		var fetcher cdpchat.Fetcher = cdphttp.NewFetcher()
		if cli.Render && needsFetcher(sources) {
			browser, err := rod.NewFetcher()
			if err != nil {
				return nil, err
			}
			m.closers = append(m.closers, browser)
			fetcher = browser
		}
		if cli.Verbose {
			fetcher = cdpslog.NewLoggingFetcher(fetcher, logger)
		}
		l.Fetcher = fetcher
		loader = l
	}

	if cli.Verbose {
		loader = cdpslog.NewLoggingCorpusLoader(loader, logger)
	}
	return loader, nil
}

func needsFetcher(sources []cdpchat.CorpusSource) bool {
	for _, src := range sources {
		loc, err := corpus.ParseLocation(src.Location)
		if err == nil && (loc.Kind == corpus.KindPage || loc.Kind == corpus.KindSitemap) {
			return true
		}
	}
	return false
}

// envFileArg finds --env-file before kong runs, since kong reads the
// environment while parsing.
func envFileArg(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return v
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ".env"
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cdpchat.Errorf(cdpchat.EINVALID, "loading %s: %v", path, err)
	}
	return nil
}
