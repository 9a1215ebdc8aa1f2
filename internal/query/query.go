// Package query answers questions over the accumulated ledger: keyword
// retrieval picks candidate rows, the LLM writes the answer, and an optional
// critique pass reviews it.
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/TobiSchelling/vidigest/internal/llm"
	"github.com/TobiSchelling/vidigest/internal/record"
	"github.com/TobiSchelling/vidigest/internal/store"
)

const answerPrompt = `You are answering a question using analyzed video records collected from financial channels.

Use ONLY the records below. If they do not contain enough information, say so plainly. Cite channels and dates where helpful.

[RECORDS]
%s

[QUESTION]
%s`

const critiquePrompt = `Below is a question and a draft answer produced from a ledger of analyzed videos.

Critically review the draft: point out unsupported claims, missing caveats, and places where the cited records contradict it. Then give an improved final answer.

[QUESTION]
%s

[DRAFT ANSWER]
%s`

const maxContextRecords = 8

// Engine runs retrieval-augmented answers over the ledger.
type Engine struct {
	db        *store.DB
	provider  llm.Provider
	maxTokens int
}

// NewEngine creates a query engine.
func NewEngine(db *store.DB, provider llm.Provider, maxTokens int) *Engine {
	return &Engine{db: db, provider: provider, maxTokens: maxTokens}
}

// Ask answers a question from the ledger. Returns the answer text.
func (e *Engine) Ask(ctx context.Context, question string) (string, error) {
	if e.provider == nil {
		return "", fmt.Errorf("no LLM provider available")
	}

	keywords := Keywords(question)
	records, err := e.db.Search(keywords)
	if err != nil {
		return "", fmt.Errorf("searching ledger: %w", err)
	}

	ranked := rank(records, keywords)
	if len(ranked) > maxContextRecords {
		ranked = ranked[:maxContextRecords]
	}
	if len(ranked) == 0 {
		return "No collected records match that question yet.", nil
	}

	prompt := fmt.Sprintf(answerPrompt, formatRecords(ranked), question)
	return e.provider.Generate(ctx, prompt, e.maxTokens)
}

// Critique runs a review pass over a previously produced answer.
func (e *Engine) Critique(ctx context.Context, question, answer string) (string, error) {
	if e.provider == nil {
		return "", fmt.Errorf("no LLM provider available")
	}
	prompt := fmt.Sprintf(critiquePrompt, question, answer)
	return e.provider.Generate(ctx, prompt, e.maxTokens)
}

// Keywords splits a question into search keywords, dropping punctuation and
// very short tokens.
func Keywords(question string) []string {
	fields := strings.FieldsFunc(question, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '.', '?', '!', '"', '\'', '(', ')', ':', ';':
			return true
		}
		return false
	})

	var out []string
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// rank orders records by how many distinct keywords they contain, most
// matches first. Ties keep the store's newest-first order.
func rank(records []record.Record, keywords []string) []record.Record {
	type scored struct {
		rec   record.Record
		score int
		pos   int
	}

	items := make([]scored, 0, len(records))
	for i, r := range records {
		text := strings.ToLower(strings.Join([]string{
			r.Title, r.MainTopic, r.KeyArguments, r.Implications, r.Summary, r.Tags,
		}, "\n"))

		score := 0
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				score++
			}
		}
		items = append(items, scored{rec: r, score: score, pos: i})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].pos < items[j].pos
	})

	out := make([]record.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

func formatRecords(records []record.Record) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s — %s\n", r.PublishedAt, r.SourceName, r.Title)
		if r.MainTopic != "" {
			fmt.Fprintf(&b, "Topic: %s\n", r.MainTopic)
		}
		if r.KeyArguments != "" {
			fmt.Fprintf(&b, "Key arguments:\n%s\n", r.KeyArguments)
		}
		if r.Implications != "" {
			fmt.Fprintf(&b, "Implications: %s\n", r.Implications)
		}
		summary := r.Summary
		if len(summary) > 600 {
			summary = summary[:600] + "..."
		}
		if summary != "" {
			fmt.Fprintf(&b, "Summary: %s", summary)
		}
	}
	return b.String()
}
