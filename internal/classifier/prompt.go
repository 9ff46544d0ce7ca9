package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"reelvault/internal/category"
)

var (
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("empty classification response")
	// ErrMalformedResponse is returned when the answer is not the expected JSON document.
	ErrMalformedResponse = errors.New("malformed classification response")
)

const promptText = `{{if .IsURL}}This is a short-form video (reel) URL: {{.Input}}. Extract and summarize the key content{{else}}This is content from a short-form video (reel): {{.Input}}. Summarize the key points{{end}}, provide a concise title, and categorize it.
{{with .Page}}The linked page is titled "{{.Title}}" and described as: {{.Description}}
{{end}}The category must be one of: {{.Categories}}.
Format the response as JSON with fields "title", "summary" and "category", for example: {{.Example}}`

var promptTemplate = template.Must(template.New("classify-prompt").Parse(promptText))

// pageInfo is scraped metadata for URL-shaped input.
type pageInfo struct {
	Title       string
	Description string
}

type promptParams struct {
	Input      string
	IsURL      bool
	Page       *pageInfo
	Categories string
	Example    string
}

// aiResponse is the JSON document the model is asked to produce.
type aiResponse struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

func exampleResponse() string {
	out, _ := json.Marshal(aiResponse{
		Title:    "Quick 15-Min Pasta Recipe",
		Summary:  "Boil pasta. Mix with olive oil, garlic, chili flakes, and parmesan. Top with basil.",
		Category: string(category.Recipes),
	})
	return string(out)
}

func buildPrompt(raw string, page *pageInfo) (string, error) {
	names := make([]string, 0, len(category.List()))
	for _, c := range category.List() {
		names = append(names, c.String())
	}

	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptParams{
		Input:      raw,
		IsURL:      IsURL(raw),
		Page:       page,
		Categories: strings.Join(names, ", "),
		Example:    exampleResponse(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// parseResponse decodes the model output. Models often wrap JSON in a
// Markdown code fence, which is stripped first.
func parseResponse(out string) (aiResponse, error) {
	body := strings.TrimSpace(out)
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(body, "```")
	body = strings.TrimSpace(body)
	if body == "" {
		return aiResponse{}, ErrEmptyResponse
	}

	var resp aiResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return aiResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	resp.Title = strings.TrimSpace(resp.Title)
	resp.Summary = strings.TrimSpace(resp.Summary)
	if resp.Title == "" && resp.Summary == "" {
		return aiResponse{}, fmt.Errorf("%w: missing title and summary", ErrMalformedResponse)
	}
	return resp, nil
}
