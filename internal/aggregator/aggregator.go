// Package aggregator merges fetcher outputs into a ranked, deduplicated
// shortlist for one category.
package aggregator

import (
	"net/url"
	"sort"
	"strings"

	"newsroom/internal/domain"
)

// defaultMix bounds how many items each source may contribute before the
// remainder is filled by raw score, so one noisy source cannot dominate
// the digest.
var defaultMix = []sourceQuota{
	{domain.SourceHackerNews, 3},
	{domain.SourceReddit, 3},
	{domain.SourceArxiv, 2},
	{domain.SourceRSS, 3},
}

type sourceQuota struct {
	source domain.Source
	limit  int
}

// Aggregator filters, dedups, ranks, and mixes news items.
type Aggregator struct {
	mix      []sourceQuota
	maxItems int
}

// New builds an aggregator with the default per-source mix.
func New() *Aggregator {
	return &Aggregator{mix: defaultMix, maxItems: 12}
}

// Aggregate returns the ordered shortlist for a category. An empty result
// means the category has nothing to write about this week; callers skip it
// rather than treating it as an error.
func (a *Aggregator) Aggregate(items []domain.NewsItem, keywords []string) []domain.NewsItem {
	filtered := filterByKeywords(items, keywords)
	deduped := dedupByURL(filtered)

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	return a.applyMix(deduped)
}

// filterByKeywords keeps items whose title or summary contains at least one
// keyword, case-insensitively. No keywords means no filtering.
func filterByKeywords(items []domain.NewsItem, keywords []string) []domain.NewsItem {
	if len(keywords) == 0 {
		return items
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}

	var kept []domain.NewsItem
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Summary)
		for _, kw := range lowered {
			if strings.Contains(haystack, kw) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}

// dedupByURL drops items sharing a normalized URL, keeping the first
// occurrence (fetcher order, later re-ranked by score).
func dedupByURL(items []domain.NewsItem) []domain.NewsItem {
	seen := map[string]struct{}{}
	var unique []domain.NewsItem
	for _, item := range items {
		key := NormalizeURL(item.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// NormalizeURL lowercases scheme and host, strips fragments, trailing
// slashes, and utm_* tracking parameters so casing and slash variants of
// the same link collapse to one key.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(strings.TrimSuffix(raw, "/"))
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	query := parsed.Query()
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			query.Del(key)
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// applyMix takes up to the quota from each source in fixed order, then
// fills the remaining capacity by rank.
func (a *Aggregator) applyMix(ranked []domain.NewsItem) []domain.NewsItem {
	if len(ranked) == 0 {
		return nil
	}

	taken := make(map[int]bool, len(ranked))
	var result []domain.NewsItem

	for _, quota := range a.mix {
		count := 0
		for i, item := range ranked {
			if count >= quota.limit || len(result) >= a.maxItems {
				break
			}
			if taken[i] || item.Source != quota.source {
				continue
			}
			taken[i] = true
			result = append(result, item)
			count++
		}
	}

	for i, item := range ranked {
		if len(result) >= a.maxItems {
			break
		}
		if taken[i] {
			continue
		}
		taken[i] = true
		result = append(result, item)
	}

	return result
}
