// Package gemini is the remote model-backed smart-entry parser. It delegates
// the extraction task to a Gemini call with a constrained JSON output shape
// and degrades to smart.ErrUnavailable on any credential, network or output
// failure, so callers can swap it with the rule-based backend freely.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/smart"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Parser implements smart.Parser over a remote Gemini call.
type Parser struct {
	client *genai.Client
	model  string
}

var _ smart.Parser = (*Parser)(nil)

// New creates the remote parser. Credentials come from the environment
// (GEMINI_API_KEY / GOOGLE_API_KEY); a missing credential surfaces here as
// an error so the factory can fall back or fail fast at startup.
func New(ctx context.Context, model string) (*Parser, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Parser{client: client, model: model}, nil
}

// Model reports the model name in use after defaulting.
func (p *Parser) Model() string {
	return p.model
}

// payload is the constrained output shape requested from the model.
type payload struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

// Parse sends the text to the model and maps the reply onto a draft. The
// round-trip is bounded by the caller's context; "no response" is
// indistinguishable from "unavailable" by design.
func (p *Parser) Parse(ctx context.Context, text string) (*core.Draft, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(text)}},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %v", smart.ErrUnavailable, err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("%w: empty model response", smart.ErrUnavailable)
	}

	var out payload
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &out); err != nil {
		slog.DebugContext(ctx, "Unparseable model output", "raw", raw)
		return nil, fmt.Errorf("%w: malformed model output: %v", smart.ErrUnavailable, err)
	}

	return draftFromPayload(out, text)
}

func buildPrompt(text string) string {
	return "You are a bookkeeping assistant for a Hong Kong small business.\n\n" +
		"Task:\n" +
		"- Extract one transaction from the user text below (mixed Chinese/English).\n" +
		"- Output STRICT JSON only: a single object, no comments, no extra text.\n\n" +
		"The object must have these fields:\n" +
		"- \"date\": string \"YYYY-MM-DD\", or \"\" when the text names no date\n" +
		"- \"category\": one of the predefined categories below\n" +
		"- \"description\": string, the original user text\n" +
		"- \"amount\": number, the monetary amount; 0 when none is present\n" +
		"- \"type\": \"income\" or \"expense\"\n\n" +
		"Predefined categories:\n- " + strings.Join(smart.CategoryLabels(), "\n- ") + "\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Output must begin with \"{\" and end with \"}\".\n\n" +
		"User text: " + text + "\n"
}

// draftFromPayload normalizes the model reply into the shared draft shape,
// applying the same defaults as the rule-based backend.
func draftFromPayload(out payload, original string) (*core.Draft, error) {
	if out.Amount <= 0 {
		return nil, smart.ErrNoAmount
	}

	draft := &core.Draft{
		Category:    out.Category,
		Description: out.Description,
		Amount:      out.Amount,
		Type:        core.Expense,
	}
	if core.TxType(out.Type) == core.Income {
		draft.Type = core.Income
	}
	if draft.Category == "" {
		draft.Category = core.CategoryOthers
	}
	if draft.Description == "" {
		draft.Description = original
	}
	if out.Date != "" {
		if d, err := core.ParseDate(out.Date); err == nil {
			draft.Date = d
		}
	}
	if draft.Date.IsZero() {
		draft.Date = core.Today()
	}
	return draft, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the model
// ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
