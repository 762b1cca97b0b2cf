package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"notetree-be/internal/config"
	"notetree-be/internal/dto"
	"notetree-be/internal/entity"
	"notetree-be/internal/pkg/logger"
	"notetree-be/internal/repository/specification"
	"notetree-be/internal/repository/unitofwork"
	"notetree-be/pkg/embedding"
	"notetree-be/pkg/markup"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	searchMaxResults   = 20
	semanticPassLimit  = 15
	previewWindow      = 40
	previewFallbackLen = 80
)

type ISearchService interface {
	Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SearchResultResponse, error)
}

type searchService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	provider         embedding.EmbeddingProvider
	indexGuard       *gocache.Cache
	cfg              config.SearchConfig
	log              logger.ILogger
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	provider embedding.EmbeddingProvider,
	cfg config.SearchConfig,
	log logger.ILogger,
) ISearchService {
	guardTTL := time.Duration(cfg.IndexGuardTTLMinutes) * time.Minute
	return &searchService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		provider:         provider,
		indexGuard:       gocache.New(guardTTL, 2*guardTTL),
		cfg:              cfg,
		log:              log,
	}
}

func (s *searchService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SearchResultResponse, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []*dto.SearchResultResponse{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	keywordNotes, err := uow.NoteRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.SearchQuery{Query: query},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Limit{Limit: searchMaxResults},
	)
	if err != nil {
		return nil, err
	}

	keywordResults := make([]*dto.SearchResultResponse, 0, len(keywordNotes))
	for _, n := range keywordNotes {
		keywordResults = append(keywordResults, toSearchResult(n, query, dto.MatchTypeKeyword))
	}

	s.ensureIndexed(ctx, uow, userId)

	semanticResults := s.semanticPass(ctx, uow, userId, query)

	return mergeResults(keywordResults, semanticResults, searchMaxResults), nil
}

// ensureIndexed queues embedding tasks for notes the pipeline has not
// reached, at most once per owner per guard window.
func (s *searchService) ensureIndexed(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) {
	key := userId.String()
	if _, checked := s.indexGuard.Get(key); checked {
		return
	}
	s.indexGuard.Set(key, true, gocache.DefaultExpiration)

	if s.provider == nil || !s.provider.Available() {
		return
	}

	pending, err := uow.NoteRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.MissingEmbedding{},
	)
	if err != nil {
		s.log.Warn("search", "auto-index scan failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return
	}
	if len(pending) == 0 {
		return
	}

	for _, n := range pending {
		payload, _ := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: n.Id})
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.log.Warn("search", "failed to queue auto-index task", map[string]interface{}{
				"note_id": n.Id,
				"error":   err.Error(),
			})
			return
		}
	}

	s.log.Info("search", "queued auto-index tasks", map[string]interface{}{
		"user_id": userId,
		"count":   len(pending),
	})
}

// semanticPass never fails the search; any provider or storage error
// degrades the response to keyword matches only.
func (s *searchService) semanticPass(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, query string) []*dto.SearchResultResponse {
	if s.provider == nil || !s.provider.Available() {
		return nil
	}

	// Nothing indexed yet means nothing to rank; skip embedding the query.
	indexed, err := uow.NoteRepository().Count(ctx,
		specification.OwnedBy{UserID: userId},
		specification.HasEmbedding{},
	)
	if err != nil {
		s.log.Warn("search", "indexed note count failed, falling back to keyword results", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if indexed == 0 {
		return nil
	}

	resp, err := s.provider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		s.log.Warn("search", "query embedding failed, falling back to keyword results", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	scored, err := uow.NoteRepository().SearchSimilarWithScore(ctx,
		resp.Embedding.Values, userId, s.cfg.SimilarityThreshold, semanticPassLimit)
	if err != nil {
		s.log.Warn("search", "vector search failed, falling back to keyword results", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	results := make([]*dto.SearchResultResponse, 0, len(scored))
	for _, sn := range scored {
		results = append(results, toSearchResult(sn.Note, query, dto.MatchTypeSemantic))
	}
	return results
}

func toSearchResult(n *entity.Note, query, matchType string) *dto.SearchResultResponse {
	return &dto.SearchResultResponse{
		Id:         n.Id,
		Title:      n.Title,
		TitleEmoji: n.TitleEmoji,
		Preview:    extractPreview(n.Content, query),
		UpdatedAt:  n.UpdatedAt,
		MatchType:  matchType,
	}
}

// mergeResults combines the keyword and semantic passes, keyword matches
// first, deduplicated by note id, capped at max.
func mergeResults(keyword, semantic []*dto.SearchResultResponse, max int) []*dto.SearchResultResponse {
	merged := make([]*dto.SearchResultResponse, 0, len(keyword)+len(semantic))
	seen := make(map[uuid.UUID]bool, len(keyword))

	for _, r := range keyword {
		if seen[r.Id] {
			continue
		}
		seen[r.Id] = true
		merged = append(merged, r)
	}
	for _, r := range semantic {
		if seen[r.Id] {
			continue
		}
		seen[r.Id] = true
		merged = append(merged, r)
	}

	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}

// extractPreview builds a short plain-text excerpt around the first match of
// the query. When the query does not occur in the stripped text (semantic
// matches, title-only hits) it falls back to the opening of the note.
func extractPreview(content, query string) string {
	text := strings.Join(strings.Fields(markup.StripContent(content)), " ")
	if text == "" {
		return ""
	}

	runes := []rune(text)
	idx := runeIndexFold(text, query)
	if idx < 0 {
		if len(runes) <= previewFallbackLen {
			return text
		}
		return string(runes[:previewFallbackLen]) + "..."
	}

	queryLen := len([]rune(query))
	start := idx - previewWindow
	if start < 0 {
		start = 0
	}
	end := idx + queryLen + previewWindow
	if end > len(runes) {
		end = len(runes)
	}

	preview := string(runes[start:end])
	if start > 0 {
		preview = "..." + preview
	}
	if end < len(runes) {
		preview = preview + "..."
	}
	return preview
}

// runeIndexFold returns the rune index of the first case-insensitive
// occurrence of query in text, or -1. Folding compares rune windows in
// place, so the index stays aligned even when a case mapping changes the
// encoded length of a rune (for example U+0130).
func runeIndexFold(text, query string) int {
	t := []rune(text)
	q := []rune(query)
	if len(q) == 0 || len(q) > len(t) {
		return -1
	}
	for i := 0; i+len(q) <= len(t); i++ {
		if strings.EqualFold(string(t[i:i+len(q)]), query) {
			return i
		}
	}
	return -1
}
