// Package extract turns one feed entry into structured analytical fields by
// prompting an LLM and parsing the JSON it returns.
package extract

import (
	"context"
	_ "embed"
	"log"

	"github.com/TobiSchelling/vidigest/internal/fetch"
	"github.com/TobiSchelling/vidigest/internal/llm"
	"github.com/TobiSchelling/vidigest/internal/poll"
)

//go:embed prompt.txt
var DefaultPrompt string

const maxExcerpt = 4000

// Result holds the fields extracted for one entry. Every field is optional:
// an empty value means the model omitted it, and the record composer decides
// the fallback. A nil *Result means extraction failed entirely.
type Result struct {
	ItemID        string
	URL           string
	Title         string
	ChannelName   string
	PublishedAt   string
	MainTopic     string
	KeyArguments  []string
	Evidence      []string
	Implications  string
	ValidityCheck string
	Sentiment     string
	Tags          string
	Summary       string
}

// Client invokes the LLM on one entry at a time.
type Client struct {
	provider  llm.Provider
	fetcher   *fetch.Fetcher
	template  string
	maxTokens int
}

// New creates an extraction client. fetcher may be nil when no source
// requests page-content enrichment.
func New(provider llm.Provider, fetcher *fetch.Fetcher, template string, maxTokens int) *Client {
	if template == "" {
		template = DefaultPrompt
	}
	return &Client{
		provider:  provider,
		fetcher:   fetcher,
		template:  template,
		maxTokens: maxTokens,
	}
}

// Extract sends the instruction template plus the entry URL to the model and
// parses the response. Returns nil on any transport or parse failure; there
// is no retry here, so a failed entry stays eligible for the next run.
func (c *Client) Extract(ctx context.Context, entry poll.Entry, src poll.Source) *Result {
	prompt := c.template + "\n\n[TARGET LINK]: " + entry.URL

	if src.FetchContent && c.fetcher != nil {
		text, err := c.fetcher.PageText(entry.URL)
		if err != nil {
			log.Printf("Could not fetch page content for %s: %v", entry.URL, err)
		} else if text != "" {
			if len(text) > maxExcerpt {
				text = text[:maxExcerpt] + "..."
			}
			prompt += "\n\n[PAGE CONTENT]\n" + text
		}
	}

	responseText, err := c.provider.Generate(ctx, prompt, c.maxTokens)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", entry.URL, err)
		return nil
	}

	parsed := llm.ParseJSONResponse(responseText)
	if parsed == nil {
		log.Printf("Extraction response for %s contained no JSON object", entry.URL)
		return nil
	}

	return resultFromMap(parsed)
}

func resultFromMap(m map[string]any) *Result {
	return &Result{
		ItemID:        getString(m, "video_id"),
		URL:           getString(m, "url"),
		Title:         getString(m, "title"),
		ChannelName:   getString(m, "channel_name"),
		PublishedAt:   getString(m, "published_at"),
		MainTopic:     getString(m, "main_topic"),
		KeyArguments:  getStringList(m, "key_arguments"),
		Evidence:      getStringList(m, "evidence"),
		Implications:  getString(m, "implications"),
		ValidityCheck: getString(m, "validity_check"),
		Sentiment:     getString(m, "sentiment"),
		Tags:          getString(m, "tags"),
		Summary:       getString(m, "full_summary"),
	}
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getStringList(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
