package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/ragmark"
	"google.golang.org/genai"
)

// Ensure Session implements ragmark.EnrichmentSession at compile time.
var _ ragmark.EnrichmentSession = (*Session)(nil)

// Session implements ragmark.EnrichmentSession using Google Gemini.
//
// The enrichment instruction and document metadata are fixed for the life of
// the session. The window text set via SetCachedContext becomes a stable
// prompt prefix shared by every call in that window, so Gemini's implicit
// prompt caching serves it from cache after the first call.
type Session struct {
	client *genai.Client
	model  string
	meta   ragmark.DocumentMetadata

	mu     sync.Mutex
	window string
	warm   bool
	hits   int
	misses int
}

// NewSession creates an enrichment session for one document.
func NewSession(client *genai.Client, model string, meta ragmark.DocumentMetadata) *Session {
	if model == "" {
		model = defaultModel
	}
	return &Session{client: client, model: model, meta: meta}
}

// SetCachedContext replaces the window-scoped prompt prefix. The next call
// counts as a cache miss; subsequent calls in the same window count as hits.
func (s *Session) SetCachedContext(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = text
	s.warm = false
	return nil
}

// Call sends keyed block texts for enrichment and returns the enhanced text
// keyed the same way. The model responds with a JSON object; a response that
// fails to parse returns EINVALID and a deadline expiry returns ETIMEOUT,
// both retryable by the caller.
func (s *Session) Call(ctx context.Context, blocks map[string]string) (map[string]string, error) {
	s.mu.Lock()
	window := s.window
	if s.warm {
		s.hits++
	} else {
		s.misses++
		s.warm = true
	}
	s.mu.Unlock()

	prompt, err := BuildCallPrompt(window, blocks)
	if err != nil {
		return nil, err
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildEnrichConfig(s.meta),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ragmark.Errorf(ragmark.ETIMEOUT, "enrichment call timed out: %v", err)
		}
		return nil, err
	}
	if result == nil {
		return nil, ragmark.Errorf(ragmark.EINTERNAL, "gemini returned nil result")
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(result.Text()), &out); err != nil {
		return nil, ragmark.Errorf(ragmark.EINVALID, "malformed enrichment response: %v", err)
	}
	return out, nil
}

// Metrics returns the cache hit/miss counters accumulated so far.
func (s *Session) Metrics() ragmark.SessionMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ragmark.SessionMetrics{CacheHits: s.hits, CacheMisses: s.misses}
}

// Close releases session state. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = ""
	s.warm = false
	return nil
}

// BuildEnrichConfig returns the GenerateContentConfig for enrichment calls.
// The system instruction carries the enrichment rules and document metadata
// so it stays identical across every call in the session.
func BuildEnrichConfig(meta ragmark.DocumentMetadata) *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: BuildSessionInstruction(meta)}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
}

// BuildSessionInstruction builds the static system instruction for a
// document's enrichment session.
func BuildSessionInstruction(meta ragmark.DocumentMetadata) string {
	var sb strings.Builder
	sb.WriteString("You disambiguate text blocks from a documentation page so they remain understandable out of context.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- Insert clarifications as double-bracketed spans, e.g. [[the HTTP fetcher]], immediately after the ambiguous word.\n")
	sb.WriteString("- Clarify pronouns, abbreviations, and references that depend on surrounding text.\n")
	sb.WriteString("- Never add, remove, reorder, or rewrite any original word. Only bracketed spans may be inserted.\n")
	sb.WriteString("- Leave a block unchanged when nothing needs clarification.\n")
	sb.WriteString("- Respond with a JSON object mapping each input block key to its enhanced text. Include every key you were given.\n")

	if meta.Title != "" || meta.URL != "" || meta.Description != "" {
		sb.WriteString("\nDocument:\n")
		if meta.Title != "" {
			fmt.Fprintf(&sb, "- Title: %s\n", meta.Title)
		}
		if meta.URL != "" {
			fmt.Fprintf(&sb, "- URL: %s\n", meta.URL)
		}
		if meta.Description != "" {
			fmt.Fprintf(&sb, "- Description: %s\n", meta.Description)
		}
	}
	return sb.String()
}

// BuildCallPrompt builds the prompt for one batch call. The window context
// comes first and is byte-identical across calls within a window, which is
// what makes implicit caching effective. Map marshaling sorts keys, so the
// block payload is deterministic too.
func BuildCallPrompt(window string, blocks map[string]string) (string, error) {
	payload, err := json.Marshal(blocks)
	if err != nil {
		return "", ragmark.Errorf(ragmark.EINTERNAL, "marshal blocks: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("<context>\n")
	sb.WriteString(window)
	sb.WriteString("\n</context>\n\n")
	sb.WriteString("Enhance the following blocks:\n")
	sb.Write(payload)
	return sb.String(), nil
}
