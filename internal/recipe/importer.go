package recipe

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cookwise/internal/llm"
	"cookwise/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

//go:embed import_prompt.md
var importPrompt string

// maxPageText caps the page text sent to the model.
const maxPageText = 20000

// Importer clips a recipe from a web page.
type Importer struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// NewImporter creates a new Importer instance.
func NewImporter(textGen llm.TextGenerator) *Importer {
	return &Importer{
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Import fetches url and extracts a recipe from it.
func (i *Importer) Import(ctx context.Context, url string) (Recipe, shared.AgentMeta, error) {
	content, err := i.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return Recipe{}, shared.AgentMeta{}, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt, err := llm.RenderPrompt("import-recipe", importPrompt, map[string]string{
		"URL":     url,
		"Content": content,
	})
	if err != nil {
		return Recipe{}, shared.AgentMeta{}, err
	}

	var r Recipe
	meta, err := llm.GenerateJSON(ctx, i.textGen, "RecipeImporter", prompt, &r)
	if err != nil {
		return Recipe{}, meta, err
	}
	if r.Description == "" {
		r.Description = "Imported from " + url
	}
	if err := r.Validate(); err != nil {
		return Recipe{}, meta, fmt.Errorf("%w: %w", llm.ErrGeneration, err)
	}
	return r, meta, nil
}

func (i *Importer) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, header, footer, iframe, form, .ads, #ads").Remove()

	sel := doc.Find("article").First()
	if sel.Length() == 0 {
		sel = doc.Find("main").First()
	}
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}

	text := strings.Join(strings.Fields(sel.Text()), " ")
	if text == "" {
		return "", fmt.Errorf("page has no readable text")
	}
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}
	return text, nil
}
