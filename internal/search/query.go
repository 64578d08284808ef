package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a note search. OwnerID is mandatory: the index holds
// every user's notes, and the owner conjunct is what keeps results inside
// one partition.
type Params struct {
	Query   string
	OwnerID string
	BookID  string // Optional: restrict to one book

	Limit  int
	Offset int

	Highlight bool
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:     20,
		Offset:    0,
		Highlight: true,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single matching note.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	BookID     string            `json:"book_id,omitempty"`
	UpdatedAt  int64             `json:"updated_at,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a query scoped to one user's notes.
func (s *NoteIndex) Search(ctx context.Context, params Params) (*Result, error) {
	if params.OwnerID == "" {
		return nil, fmt.Errorf("search requires an owner id")
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildNoteQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"title", "book_id", "updated_at"}
	searchRequest.SortBy([]string{"-_score", "-updated_at"})

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("content")
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if b, ok := hit.Fields["book_id"].(string); ok {
			h.BookID = b
		}
		if u, ok := hit.Fields["updated_at"].(float64); ok {
			h.UpdatedAt = int64(u)
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildNoteQuery combines the owner conjunct with the text query. Title
// matches are boosted over content matches so heading hits rank first.
func buildNoteQuery(params Params) query.Query {
	ownerQuery := bleve.NewTermQuery(params.OwnerID)
	ownerQuery.SetField("owner")

	conjuncts := []query.Query{ownerQuery}

	if params.BookID != "" {
		bookQuery := bleve.NewTermQuery(params.BookID)
		bookQuery.SetField("book_id")
		conjuncts = append(conjuncts, bookQuery)
	}

	if params.Query != "" {
		titleQuery := bleve.NewMatchQuery(params.Query)
		titleQuery.SetField("title")
		titleQuery.SetBoost(2.0)

		contentQuery := bleve.NewMatchQuery(params.Query)
		contentQuery.SetField("content")

		conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(titleQuery, contentQuery))
	}

	return bleve.NewConjunctionQuery(conjuncts...)
}
