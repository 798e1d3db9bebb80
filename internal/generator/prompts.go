package generator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"newsroom/internal/domain"
)

func leadPrompt(item domain.NewsItem, label string) string {
	return fmt.Sprintf(
		"Write two paragraphs for the lead story of a weekly %s digest.\n"+
			"Explain what happened and why it matters to practitioners.\n\n%s",
		label, itemFacts(item))
}

func secondaryPrompt(items []domain.NewsItem, label string) string {
	return fmt.Sprintf(
		"Write one short paragraph per story for the secondary stories of a weekly %s digest. "+
			"Lead each paragraph with the story title in bold.\n\n%s",
		label, itemList(items))
}

func researchPrompt(items []domain.NewsItem, label string) string {
	return fmt.Sprintf(
		"Summarize these research papers for a weekly %s digest. "+
			"One paragraph per paper, plain language, note the practical takeaway.\n\n%s",
		label, itemList(items))
}

func communityPrompt(items []domain.NewsItem, label string) string {
	return fmt.Sprintf(
		"Describe what the community discussed this week for a %s digest, "+
			"weaving these threads into two paragraphs. Mention engagement where notable.\n\n%s",
		label, itemList(items))
}

func editorialPrompt(items []domain.NewsItem, label string) string {
	return fmt.Sprintf(
		"Close a weekly %s digest with a one-paragraph editorial perspective that "+
			"connects this week's items into a single theme.\n\n%s",
		label, itemList(items))
}

func itemFacts(item domain.NewsItem) string {
	facts := fmt.Sprintf("Title: %s\nURL: %s\nScore: %d\nComments: %d",
		item.Title, item.URL, item.Score, item.Comments)
	if item.Summary != "" {
		facts += "\nSummary: " + truncate(item.Summary, 600)
	}
	return facts
}

func itemList(items []domain.NewsItem) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s (%s, score %d, %d comments)\n",
			i+1, item.Title, item.URL, item.Score, item.Comments)
		if item.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(item.Summary, 300))
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
