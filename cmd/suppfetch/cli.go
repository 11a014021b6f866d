package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/suppfetch"
	"github.com/fwojciec/suppfetch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Service suppfetch.LookupService
	Asker   suppfetch.Asker
	Writer  suppfetch.OverviewWriter

	// Cache is set when result caching is enabled.
	Cache *sqlite.ResultCache
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout      time.Duration `env:"SUPPFETCH_TIMEOUT" default:"30s" help:"Page navigation timeout"`
	MaxPages     int64         `name:"max-pages" env:"SUPPFETCH_MAX_PAGES" default:"75" help:"Pages served before the browser is recycled"`
	RPS          float64       `name:"rps" env:"SUPPFETCH_RPS" default:"1" help:"Requests per second to the site (0 disables limiting)"`
	Cache        string        `env:"SUPPFETCH_CACHE" help:"SQLite result cache path (empty disables caching)"`
	CacheTTL     time.Duration `name:"cache-ttl" env:"SUPPFETCH_CACHE_TTL" default:"24h" help:"How long found results stay cached"`
	LogLevel     string        `name:"log-level" env:"SUPPFETCH_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	GeminiAPIKey string        `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key for questions"`

	Serve    ServeCmd    `cmd:"" help:"Serve lookups over HTTP"`
	Lookup   LookupCmd   `cmd:"" help:"Look up a supplement and print the result as JSON"`
	Overview OverviewCmd `cmd:"" help:"Print or save the main content of a supplement page as markdown"`
	Ask      AskCmd      `cmd:"" help:"Ask a question about a supplement"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"SUPPFETCH_ADDR" default:":5000" help:"Listen address"`
}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	Query      string   `arg:"" help:"Supplement name"`
	Fields     []string `short:"f" help:"Sections to search for, comma separated (repeatable)"`
	Summary    bool     `short:"s" help:"Truncate long matches"`
	MaxResults int      `short:"n" name:"max-results" help:"Matches kept per term (0 keeps all)"`
	Mode       string   `short:"m" default:"content" enum:"content,fields,elements" help:"Extraction mode"`
}

// OverviewCmd is the "overview" subcommand.
type OverviewCmd struct {
	Query string `arg:"" help:"Supplement name"`
	Out   string `short:"o" help:"Directory to save the markdown file in instead of printing it"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Query    string `arg:"" help:"Supplement name"`
	Question string `arg:"" help:"Question to ask about the supplement"`
}
