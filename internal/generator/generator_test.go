package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newsroom/internal/config"
	"newsroom/internal/domain"
)

type fakeText struct {
	response string
	err      error
	// failPrompts fails only prompts containing any of these substrings.
	failPrompts []string
	calls       []string
}

func (f *fakeText) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.calls = append(f.calls, prompt)
	for _, frag := range f.failPrompts {
		if strings.Contains(prompt, frag) {
			return "", errors.New("simulated timeout")
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testItems() []domain.NewsItem {
	return []domain.NewsItem{
		{Title: "Kubernetes 1.30 released", URL: "https://example.com/k8s", Source: domain.SourceHackerNews, Score: 500, Comments: 120},
		{Title: "Terraform providers deep dive", URL: "https://example.com/tf", Source: domain.SourceRSS, Score: 80},
		{Title: "Scheduling survey", URL: "https://example.com/paper", Source: domain.SourceArxiv},
		{Title: "What broke your cluster this week?", URL: "https://example.com/thread", Source: domain.SourceReddit, Score: 300, Comments: 410},
	}
}

func testCategory() config.Category {
	return config.Category{Name: "devops", Label: "DevOps & Tools"}
}

func newTestGenerator(text *fakeText) *Generator {
	// Zero interval disables pacing in tests.
	return New(text, config.ChatConfig{MaxTokens: 400}, nil)
}

func TestGenerateSectionOrdering(t *testing.T) {
	t.Parallel()

	text := &fakeText{response: "Generated prose."}
	md, err := newTestGenerator(text).Generate(context.Background(), testItems(), testCategory(), 37)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	order := []string{
		"Welcome to this week's",
		"## " + headingLead,
		"## " + headingSecondary,
		"## " + headingResearch,
		"## " + headingCommunity,
		"## " + headingEditorial,
	}

	pos := -1
	for _, marker := range order {
		idx := strings.Index(md, marker)
		if idx < 0 {
			t.Fatalf("document missing %q:\n%s", marker, md)
		}
		if idx < pos {
			t.Fatalf("section %q out of order:\n%s", marker, md)
		}
		pos = idx
	}
}

func TestGenerateLeadFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	text := &fakeText{
		response:    "Generated prose.",
		failPrompts: []string{"lead story"},
	}

	md, err := newTestGenerator(text).Generate(context.Background(), testItems(), testCategory(), 37)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if !strings.Contains(md, "## "+headingLead) {
		t.Fatalf("lead heading missing despite fallback:\n%s", md)
	}
	// Fallback restates the facts: title, score, comment count.
	if !strings.Contains(md, "Kubernetes 1.30 released") {
		t.Fatalf("fallback missing lead title:\n%s", md)
	}
	if !strings.Contains(md, "score of 500") || !strings.Contains(md, "120 comments") {
		t.Fatalf("fallback missing engagement facts:\n%s", md)
	}
}

func TestGenerateAllCallsFailStillProducesDocument(t *testing.T) {
	t.Parallel()

	text := &fakeText{err: errors.New("api down")}
	md, err := newTestGenerator(text).Generate(context.Background(), testItems(), testCategory(), 37)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	for _, heading := range []string{headingLead, headingEditorial} {
		if !strings.Contains(md, "## "+heading) {
			t.Fatalf("document missing %q when degraded:\n%s", heading, md)
		}
	}
}

func TestGenerateEmptyItemsIsError(t *testing.T) {
	t.Parallel()

	_, err := newTestGenerator(&fakeText{}).Generate(context.Background(), nil, testCategory(), 37)
	if err == nil {
		t.Fatal("expected error for empty item list")
	}
}

func TestGenerateSkipsResearchWithoutPapers(t *testing.T) {
	t.Parallel()

	items := []domain.NewsItem{
		{Title: "Only story", URL: "https://example.com/a", Source: domain.SourceHackerNews, Score: 5, Comments: 1},
	}

	md, err := newTestGenerator(&fakeText{response: "x"}).Generate(context.Background(), items, testCategory(), 1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if strings.Contains(md, headingResearch) {
		t.Fatalf("research section present without arxiv items:\n%s", md)
	}
}

func TestDocumentRender(t *testing.T) {
	t.Parallel()

	doc := &Document{Intro: "Intro paragraph."}
	doc.Add("First", "alpha")
	doc.Add("Second", "beta")

	got := doc.Render()
	want := "Intro paragraph.\n\n## First\n\nalpha\n\n## Second\n\nbeta\n"
	if got != want {
		t.Fatalf("unexpected render:\n%q\nwant:\n%q", got, want)
	}
}
