package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ragmark"
	"github.com/fwojciec/ragmark/crawl"
	"github.com/fwojciec/ragmark/gemini"
	"github.com/fwojciec/ragmark/goquery"
	"github.com/fwojciec/ragmark/htmltomarkdown"
	raghttp "github.com/fwojciec/ragmark/http"
	ragslog "github.com/fwojciec/ragmark/slog"
	"github.com/fwojciec/ragmark/sqlite"
	"github.com/fwojciec/ragmark/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProjectService  ragmark.ProjectService
	DocumentService ragmark.DocumentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ragmark"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'ragmark --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set RAGMARK_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.ProjectService = sqlite.NewProjectService(m.DB)
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	deps.DB = m.DB
	deps.Projects = m.ProjectService
	deps.Documents = m.DocumentService
	deps.Sitemaps = raghttp.NewSitemapService(nil)

	// Wire command-specific dependencies based on command
	if cmd == "add" && !cli.Add.Preview {
		fetcher := raghttp.NewFetcher()
		defer fetcher.Close()

		tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		deps.Crawler = &crawl.Crawler{
			Sitemaps:     deps.Sitemaps,
			Fetcher:      fetcher,
			Extractor:    trafilatura.NewExtractor(),
			Converter:    htmltomarkdown.NewConverter(),
			Documents:    m.DocumentService,
			TokenCounter: tokenCounter,
			LinkSelector: goquery.NewGenericSelector(),
			// 1 request per second per domain for recursive crawling
			RateLimiter: crawl.NewDomainLimiter(1.0),
			Concurrency: cli.Add.Concurrency,
		}
	}

	if cmd == "ask" {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		deps.Asker = gemini.NewAsker(client, m.DocumentService, defaultModel)
	}

	if cmd == "enrich" {
		client, err := geminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		model := cli.Enrich.Model
		if model == "" {
			model = defaultModel
		}
		deps.Sessions = func(meta ragmark.DocumentMetadata) ragmark.EnrichmentSession {
			session := gemini.NewSession(client, model, meta)
			if cli.Enrich.Debug {
				logger := slog.New(slog.NewTextHandler(stderr, nil))
				return ragslog.NewLoggingSession(session, logger)
			}
			return session
		}
	}

	return kongCtx.Run(deps)
}

const defaultModel = "gemini-3-flash-preview"

// tokenizerModel is used for token counting. Using gemini-2.5-flash until
// gemini-3-flash-preview is supported by google.golang.org/genai/tokenizer.
const tokenizerModel = "gemini-2.5-flash"

// geminiClient builds an API client from the GEMINI_API_KEY environment
// variable, shared by the ask and enrich commands.
func geminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func defaultDBPath() string {
	if path := os.Getenv("RAGMARK_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "ragmark.db"
	}
	dir := filepath.Join(home, ".ragmark")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "ragmark.db")
}
