package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stock-alpha-engine/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type RSSProvider struct {
	client *http.Client
	tracer trace.Tracer
}

func NewRSSProvider(tracer trace.Tracer, timeout time.Duration) *RSSProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RSSProvider{
		client: &http.Client{Timeout: timeout},
		tracer: tracer,
	}
}

// FetchFeed reads an RSS 2.0 feed and returns up to maxItems headlines in feed order.
func (p *RSSProvider) FetchFeed(ctx context.Context, feedURL string, maxItems int) ([]domain.Headline, error) {
	ctx, span := p.tracer.Start(ctx, "rss.fetch-feed")
	defer span.End()

	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("feed url is required")
	}
	if maxItems <= 0 {
		maxItems = 10
	}
	span.SetAttributes(attribute.String("feed_url", feedURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	var rss struct {
		Channel struct {
			Title string `xml:"title"`
			Items []struct {
				Title   string `xml:"title"`
				Link    string `xml:"link"`
				PubDate string `xml:"pubDate"`
				Source  string `xml:"source"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	publisher := sanitizeText(rss.Channel.Title, 120)
	items := make([]domain.Headline, 0, min(maxItems, len(rss.Channel.Items)))
	for _, row := range rss.Channel.Items {
		if len(items) >= maxItems {
			break
		}
		title := sanitizeText(htmlStrip(row.Title), 300)
		if title == "" {
			continue
		}
		source := sanitizeText(row.Source, 120)
		if source == "" {
			source = publisher
		}
		items = append(items, domain.Headline{
			Title:       title,
			Publisher:   source,
			URL:         sanitizeText(row.Link, 500),
			PublishedAt: parseRSSDate(row.PubDate),
		})
	}

	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}
