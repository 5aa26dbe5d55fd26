package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/genkit"

	"github.com/jawellis/internship-finder/internal/conversation"
	"github.com/jawellis/internship-finder/internal/log"
	"github.com/jawellis/internship-finder/internal/search"
	"github.com/jawellis/internship-finder/internal/testutil"
)

func newTestSummarizer(t *testing.T, mock *testutil.MockLLM) *Summarizer {
	t.Helper()

	g := genkit.Init(context.Background())
	mock.RegisterModel(g)

	s, err := New(g, testutil.MockModelName, log.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestNew_Validation(t *testing.T) {
	g := genkit.Init(context.Background())

	tests := []struct {
		name      string
		g         *genkit.Genkit
		modelName string
		logger    log.Logger
	}{
		{name: "nil genkit", g: nil, modelName: "m", logger: log.NewNop()},
		{name: "empty model name", g: g, modelName: "", logger: log.NewNop()},
		{name: "nil logger", g: g, modelName: "m", logger: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.g, tt.modelName, tt.logger); err == nil {
				t.Error("New() error = nil, want validation error")
			}
		})
	}
}

func TestSummarize_ReturnsModelText(t *testing.T) {
	mock := testutil.NewMockLLM("A solid fit for your fashion design search.")
	s := newTestSummarizer(t, mock)

	got, err := s.Summarize(context.Background(),
		[]search.Internship{{Title: "Design Intern", Organization: "Atelier"}},
		conversation.Preferences{Field: "fashion design"},
	)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "A solid fit for your fashion design search." {
		t.Errorf("Summarize() = %q", got)
	}
}

func TestSummarize_EmptyModelReplyFallsBack(t *testing.T) {
	mock := testutil.NewMockLLM("   ")
	s := newTestSummarizer(t, mock)

	got, err := s.Summarize(context.Background(),
		[]search.Internship{{Title: "Design Intern"}},
		conversation.Preferences{},
	)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != FallbackText {
		t.Errorf("Summarize() = %q, want %q", got, FallbackText)
	}
}

func TestSummarize_ModelErrorPropagates(t *testing.T) {
	mock := testutil.NewMockLLM("unused")
	mock.AddError("internship 1", errors.New("model unavailable"))
	s := newTestSummarizer(t, mock)

	_, err := s.Summarize(context.Background(),
		[]search.Internship{{Title: "Design Intern"}},
		conversation.Preferences{},
	)
	if err == nil {
		t.Fatal("Summarize() error = nil, want model error to propagate")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("error %q does not wrap the model failure", err)
	}
}

func TestBuildPrompt_EmbedsPreferencesAndRecords(t *testing.T) {
	t.Parallel()

	records := []search.Internship{
		{
			Title:        "Junior Stylist",
			Organization: "Maison V",
			Location:     "Paris",
			SalaryMin:    950,
			SalaryUnit:   "MONTH",
			Description:  "Assist the styling team with seasonal lookbooks.",
			URL:          "https://example.com/job/1",
		},
		{Title: "Pattern Intern"},
	}
	prefs := conversation.Preferences{Field: "fashion design", Location: "Paris", Paid: conversation.Paid}

	prompt := buildPrompt(records, prefs)

	for _, want := range []string{
		"- Field: fashion design",
		"- Location: Paris",
		"- Paid: paid",
		"Internship 1:",
		"Title: Junior Stylist",
		"Organization: Maison V",
		"Salary: €950/month",
		"Link: https://example.com/job/1",
		"Internship 2:",
		"Title: Pattern Intern",
		"pros and cons",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Records with no link or salary fall back to placeholders.
	if !strings.Contains(prompt, "Link: #") {
		t.Error("prompt missing '#' link placeholder for linkless record")
	}
	if !strings.Contains(prompt, "Salary: N/A") {
		t.Error("prompt missing N/A salary for unsalaried record")
	}
}

func TestBuildPrompt_UnspecifiedPaid(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt(nil, conversation.Preferences{Field: "finance"})
	if !strings.Contains(prompt, "- Paid: unspecified") {
		t.Error("empty paid preference should render as 'unspecified'")
	}
}

func TestBuildPrompt_TruncatesLongDescriptions(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 400)
	prompt := buildPrompt([]search.Internship{{Title: "T", Description: long}}, conversation.Preferences{})

	// 200 words survive, the rest is cut.
	if got := strings.Count(prompt, "word"); got != descriptionPreviewWords {
		t.Errorf("description words in prompt = %d, want %d", got, descriptionPreviewWords)
	}
}
