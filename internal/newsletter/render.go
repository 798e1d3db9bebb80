package newsletter

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"newsroom/internal/domain"
)

var emailTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto; color: #1a1a2e;">
  <h1 style="font-size: 22px;">This Week on the Blog</h1>
  <p>Hi {{.Greeting}},</p>
  <p>Here is what we published this week:</p>
  {{range .Posts}}
  <div style="margin-bottom: 24px;">
    <h2 style="font-size: 17px; margin-bottom: 4px;">
      <a href="{{.URL}}" style="color: #0f3460;">{{.Title}}</a>
    </h2>
    <p style="margin: 0 0 4px 0;">{{.Excerpt}}</p>
    <p style="margin: 0; font-size: 12px; color: #666;">{{.Category}} · {{.ReadTime}} min read</p>
  </div>
  {{end}}
  <hr style="border: none; border-top: 1px solid #ddd;">
  <p style="font-size: 12px; color: #666;">
    You receive this because you confirmed your subscription.
    <a href="{{.UnsubscribeURL}}">Unsubscribe</a>
  </p>
</body>
</html>`))

type emailPost struct {
	Title    string
	URL      string
	Excerpt  string
	Category string
	ReadTime int
}

type emailData struct {
	Greeting       string
	Posts          []emailPost
	UnsubscribeURL string
}

// renderEmail produces the personalized HTML and plain-text bodies for one
// subscriber.
func renderEmail(sub domain.Subscriber, posts []domain.Post, baseURL string) (html string, text string, err error) {
	greeting := strings.TrimSpace(sub.Name)
	if greeting == "" {
		greeting = "there"
	}

	data := emailData{
		Greeting:       greeting,
		UnsubscribeURL: fmt.Sprintf("%s/api/newsletter-unsubscribe?email=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(sub.Email)),
	}
	for _, p := range posts {
		data.Posts = append(data.Posts, emailPost{
			Title:    p.Title,
			URL:      fmt.Sprintf("%s/blog/%s", strings.TrimRight(baseURL, "/"), p.Slug),
			Excerpt:  p.Excerpt,
			Category: p.Category,
			ReadTime: p.ReadTime,
		})
	}

	var b strings.Builder
	if err := emailTemplate.Execute(&b, data); err != nil {
		return "", "", fmt.Errorf("render email: %w", err)
	}

	var t strings.Builder
	fmt.Fprintf(&t, "Hi %s,\n\nHere is what we published this week:\n\n", greeting)
	for _, p := range data.Posts {
		fmt.Fprintf(&t, "- %s\n  %s\n", p.Title, p.URL)
	}
	fmt.Fprintf(&t, "\nUnsubscribe: %s\n", data.UnsubscribeURL)

	return b.String(), t.String(), nil
}
