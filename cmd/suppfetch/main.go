package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/fs"
	"github.com/fwojciec/suppfetch/gemini"
	"github.com/fwojciec/suppfetch/htmltomarkdown"
	"github.com/fwojciec/suppfetch/lookup"
	"github.com/fwojciec/suppfetch/readability"
	"github.com/fwojciec/suppfetch/rod"
	supslog "github.com/fwojciec/suppfetch/slog"
	"github.com/fwojciec/suppfetch/sqlite"
	"github.com/fwojciec/suppfetch/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if closeErr := m.Close(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Browser session and cache database, owned by Main once opened.
	Session *rod.Session
	DB      *sqlite.DB

	// Services for end-to-end testing. When set, Run uses them instead of
	// launching a browser or connecting to Gemini.
	Service suppfetch.LookupService
	Asker   suppfetch.Asker
	Writer  suppfetch.OverviewWriter
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var err error
	if m.Session != nil {
		err = m.Session.Close()
	}
	if m.DB != nil {
		if dbErr := m.DB.Close(); err == nil {
			err = dbErr
		}
	}
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("suppfetch"),
		kong.Description("Look up supplement information from examine.com"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'suppfetch --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.LogLevel)

	if err := m.wireService(cli, deps); err != nil {
		return err
	}
	if err := m.wireAsker(ctx, cmd, cli, deps); err != nil {
		return err
	}
	if cmd == "overview" && cli.Overview.Out != "" {
		deps.Writer = m.Writer
		if deps.Writer == nil {
			deps.Writer = fs.NewOverviewStore(cli.Overview.Out)
		}
	}

	return kongCtx.Run(deps)
}

// wireService builds the lookup pipeline: a lazily launched browser session,
// the politeness limiter, the optional result cache and the overview
// extractors.
func (m *Main) wireService(cli *CLI, deps *Dependencies) error {
	if m.Service != nil {
		deps.Service = m.Service
		return nil
	}

	site := suppfetch.DefaultSite()
	m.Session = rod.NewSession(
		rod.WithMaxPages(cli.MaxPages),
		rod.WithNavigationTimeout(cli.Timeout),
	)

	engine := &lookup.Engine{
		Session: supslog.NewLoggingSession(m.Session, deps.Logger),
		Site:    site,
		Policy:  suppfetch.DefaultRequestPolicy(),
		Limiter: lookup.NewDomainLimiter(cli.RPS),
		Extractors: []suppfetch.Extractor{
			trafilatura.NewExtractor(site.BaseURL),
			readability.NewExtractor(site.BaseURL),
		},
		Converter: htmltomarkdown.NewConverter(site.BaseURL),
		CacheTTL:  cli.CacheTTL,
		Logger:    deps.Logger,
	}

	if cli.Cache != "" {
		m.DB = sqlite.NewDB(cli.Cache)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(deps.Stderr, "Hint: Set SUPPFETCH_CACHE to a writable path or leave it empty to disable caching\n")
			return fmt.Errorf("failed to open cache at %q: %w", cli.Cache, err)
		}
		cache := sqlite.NewResultCache(m.DB)
		engine.Cache = cache
		deps.Cache = cache
	}

	deps.Service = supslog.NewLoggingService(engine, deps.Logger)
	return nil
}

// wireAsker connects to Gemini for the ask command, and for serve when an
// API key is available.
func (m *Main) wireAsker(ctx context.Context, cmd string, cli *CLI, deps *Dependencies) error {
	if cmd != "ask" && cmd != "serve" {
		return nil
	}
	if m.Asker != nil {
		deps.Asker = m.Asker
		return nil
	}

	if cli.GeminiAPIKey == "" {
		if cmd == "ask" {
			fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		deps.Logger.Info("GEMINI_API_KEY not set; /ask is disabled")
		return nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cli.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	deps.Asker = gemini.NewAsker(client)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
