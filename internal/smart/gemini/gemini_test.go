package gemini

import (
	"errors"
	"testing"

	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/smart"
)

func TestCleanModelJSON(t *testing.T) {
	want := `{"amount": 200}`

	tests := []struct {
		name string
		raw  string
	}{
		{name: "raw object", raw: `{"amount": 200}`},
		{name: "fenced", raw: "```json\n{\"amount\": 200}\n```"},
		{name: "fenced without language", raw: "```\n{\"amount\": 200}\n```"},
		{name: "chatty preamble", raw: "Here is the JSON:\n{\"amount\": 200}\nHope that helps!"},
		{name: "padded", raw: "  \n{\"amount\": 200}\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.raw, got, want)
			}
		})
	}
}

func TestDraftFromPayload(t *testing.T) {
	draft, err := draftFromPayload(payload{
		Date:        "2025-10-14",
		Category:    "租金 Rental Fee",
		Description: "Rent 25000 yesterday",
		Amount:      25000,
		Type:        "expense",
	}, "Rent 25000 yesterday")
	if err != nil {
		t.Fatalf("draftFromPayload() error = %v", err)
	}
	if draft.Amount != 25000 || draft.Type != core.Expense {
		t.Errorf("draft = %+v", draft)
	}
	if !draft.Date.Equal(core.NewDate(2025, 10, 14)) {
		t.Errorf("date = %s, want 2025-10-14", draft.Date)
	}
}

func TestDraftFromPayloadDefaults(t *testing.T) {
	draft, err := draftFromPayload(payload{Amount: 500, Type: "invalid"}, "lunch 500")
	if err != nil {
		t.Fatalf("draftFromPayload() error = %v", err)
	}
	if draft.Type != core.Expense {
		t.Errorf("type = %s, want expense default", draft.Type)
	}
	if draft.Category != core.CategoryOthers {
		t.Errorf("category = %q, want others sentinel", draft.Category)
	}
	if draft.Description != "lunch 500" {
		t.Errorf("description = %q, want original text", draft.Description)
	}
	if draft.Date.IsZero() {
		t.Error("date should default to today")
	}
}

func TestDraftFromPayloadNoAmount(t *testing.T) {
	_, err := draftFromPayload(payload{Description: "lunch"}, "lunch")
	if !errors.Is(err, smart.ErrNoAmount) {
		t.Errorf("error = %v, want ErrNoAmount", err)
	}
}
