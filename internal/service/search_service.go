package service

import (
	"strings"

	"github.com/nmanzi/partsdb/internal/entity"
	"github.com/nmanzi/partsdb/internal/repository"
)

// SearchService compiles a free-text query into a conjunctive substring
// predicate per request: every word must match at least one searchable
// field, case-insensitively.
type SearchService struct {
	parts *repository.PartRepository

	// IncludeDescription widens the field set to the legacy single-category
	// behavior. Off by default since the junction-table migration.
	IncludeDescription bool
}

func NewSearchService(parts *repository.PartRepository, includeDescription bool) *SearchService {
	return &SearchService{parts: parts, IncludeDescription: includeDescription}
}

// Search returns parts matching every whitespace-separated token. An empty
// or whitespace-only query returns an empty result, not the whole catalog.
// Ordering is primary key ascending so repeated calls paginate identically.
func (s *SearchService) Search(query string, offset, limit int) ([]entity.Part, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return []entity.Part{}, nil
	}
	return s.parts.Search(tokens, s.IncludeDescription, offset, limit)
}
