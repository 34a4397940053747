package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/ragmark"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// Ensure Asker implements ragmark.Asker at compile time.
var _ ragmark.Asker = (*Asker)(nil)

// Asker implements ragmark.Asker using Google Gemini.
type Asker struct {
	client *genai.Client
	docs   ragmark.DocumentService
	model  string
}

// NewAsker creates a new Asker. An empty model selects the default.
func NewAsker(client *genai.Client, docs ragmark.DocumentService, model string) *Asker {
	if model == "" {
		model = defaultModel
	}
	return &Asker{client: client, docs: docs, model: model}
}

// Ask answers a natural language question about a project's documentation.
// Enriched document content is preferred over the raw crawl when present.
func (a *Asker) Ask(ctx context.Context, projectID, question string) (string, error) {
	if projectID == "" {
		return "", ragmark.Errorf(ragmark.EINVALID, "project ID required")
	}
	if question == "" {
		return "", ragmark.Errorf(ragmark.EINVALID, "question required")
	}

	docs, err := a.docs.FindDocuments(ctx, ragmark.DocumentFilter{ProjectID: &projectID})
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", ragmark.Errorf(ragmark.ENOTFOUND, "no documents found for project %q", projectID)
	}

	prompt := BuildUserPrompt(docs, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", ragmark.Errorf(ragmark.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about software library documentation. Answer based only on the documentation provided. If the answer is not in the documentation, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing documentation and question.
func BuildUserPrompt(docs []*ragmark.Document, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<source>%s</source>\n", doc.SourceURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", doc.Body())
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
