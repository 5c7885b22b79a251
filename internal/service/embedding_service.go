package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"portfolio-notes-be/internal/dto"
	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/pkg/apperror"
	"portfolio-notes-be/internal/pkg/logger"
	"portfolio-notes-be/internal/repository/specification"
	"portfolio-notes-be/internal/repository/unitofwork"
	"portfolio-notes-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type IEmbeddingService interface {
	Rebuild(ctx context.Context, ownerId uuid.UUID, req *dto.RebuildEmbeddingsRequest) (*dto.RebuildEmbeddingsResponse, error)
	SearchSimilar(ctx context.Context, ownerId, noteId uuid.UUID, limit int, minScore float64) ([]*dto.SimilarNoteResponse, error)
	// RefreshOwnerNotes brings every embedding of the owner up to date and
	// returns how many were recomputed. Used by candidate generation, which
	// must cover all notes regardless of the rebuild batch ceiling.
	RefreshOwnerNotes(ctx context.Context, ownerId uuid.UUID) (int, error)
	// RefreshNote recomputes a single note's embedding if stale. Used by the
	// embed-queue consumer; no owner scoping, the queue is trusted.
	RefreshNote(ctx context.Context, noteId uuid.UUID) error
}

type EmbeddingServiceConfig struct {
	RebuildBatchCeiling int
	SimilarDefaultLimit int
	SimilarMaxLimit     int
}

type embeddingService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.Embedder
	cfg        EmbeddingServiceConfig
	similar    *cache.Cache
	logger     logger.ILogger
}

func NewEmbeddingService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.Embedder,
	cfg EmbeddingServiceConfig,
	log logger.ILogger,
) IEmbeddingService {
	return &embeddingService{
		uowFactory: uowFactory,
		embedder:   embedder,
		cfg:        cfg,
		similar:    cache.New(30*time.Second, 5*time.Minute),
		logger:     log,
	}
}

func (s *embeddingService) Rebuild(ctx context.Context, ownerId uuid.UUID, req *dto.RebuildEmbeddingsRequest) (*dto.RebuildEmbeddingsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	noteIds := dedupeIds(req.NoteIds)
	if len(noteIds) > s.cfg.RebuildBatchCeiling {
		return nil, apperror.Validation("too many note ids in one rebuild", map[string]string{
			"note_ids": fmt.Sprintf("at most %d ids allowed, got %d", s.cfg.RebuildBatchCeiling, len(noteIds)),
		})
	}
	if req.Limit > s.cfg.RebuildBatchCeiling {
		return nil, apperror.Validation("rebuild limit exceeds ceiling", map[string]string{
			"limit": fmt.Sprintf("at most %d allowed, got %d", s.cfg.RebuildBatchCeiling, req.Limit),
		})
	}

	var notes []*entity.Note
	var err error

	if len(noteIds) > 0 {
		notes, err = uow.NoteRepository().FindAll(ctx,
			specification.ByIDs{IDs: noteIds},
			specification.OwnedBy{OwnerID: ownerId},
		)
		if err != nil {
			return nil, err
		}
		// Reject the whole batch rather than silently skipping foreign or
		// unknown ids; partial application would surprise the caller.
		if len(notes) != len(noteIds) {
			return nil, apperror.NotFound("one or more requested notes do not exist for this owner")
		}
		sortNotesForRebuild(notes)
	} else {
		limit := req.Limit
		if limit <= 0 {
			limit = s.cfg.RebuildBatchCeiling
		}
		notes, err = uow.NoteRepository().FindAll(ctx,
			specification.OwnedBy{OwnerID: ownerId},
			specification.OrderBy{Field: "updated_at", Desc: true},
			specification.OrderBy{Field: "id", Desc: false},
			specification.Limit{N: limit},
		)
		if err != nil {
			return nil, err
		}
	}

	scheduled, touched, err := s.refreshNotes(ctx, uow, notes)
	if err != nil {
		return nil, err
	}

	if scheduled > 0 {
		s.similar.Flush()
	}

	return &dto.RebuildEmbeddingsResponse{
		Scheduled: scheduled,
		NoteIds:   touched,
	}, nil
}

// refreshNotes recomputes embeddings for the notes whose content fingerprint
// changed, in the given order. Returns the recompute count and the ids
// actually touched.
func (s *embeddingService) refreshNotes(ctx context.Context, uow unitofwork.UnitOfWork, notes []*entity.Note) (int, []uuid.UUID, error) {
	if len(notes) == 0 {
		return 0, []uuid.UUID{}, nil
	}

	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.Id
	}

	existing, err := uow.NoteEmbeddingRepository().FindAll(ctx, specification.ByNoteIDs{NoteIDs: ids})
	if err != nil {
		return 0, nil, err
	}
	byNote := make(map[uuid.UUID]*entity.NoteEmbedding, len(existing))
	for _, e := range existing {
		byNote[e.NoteId] = e
	}

	if err := uow.Begin(ctx); err != nil {
		return 0, nil, err
	}
	defer uow.Rollback()

	scheduled := 0
	touched := make([]uuid.UUID, 0, len(notes))

	for _, note := range notes {
		doc := embedding.ComposeDocument(note.Title, note.ContentMd)
		fingerprint := embedding.Fingerprint(doc)

		if prev, ok := byNote[note.Id]; ok && !prev.IsDeleted && prev.ContentHash == fingerprint {
			continue // unchanged, not counted
		}

		now := time.Now()
		row := &entity.NoteEmbedding{
			Id:          uuid.New(),
			NoteId:      note.Id,
			Vector:      s.embedder.Embed(doc),
			ContentHash: fingerprint,
			CreatedAt:   now,
			UpdatedAt:   &now,
		}
		if err := uow.NoteEmbeddingRepository().Upsert(ctx, row); err != nil {
			return 0, nil, err
		}

		scheduled++
		touched = append(touched, note.Id)
	}

	if err := uow.Commit(); err != nil {
		return 0, nil, err
	}

	return scheduled, touched, nil
}

func (s *embeddingService) RefreshOwnerNotes(ctx context.Context, ownerId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return 0, err
	}

	scheduled, _, err := s.refreshNotes(ctx, uow, notes)
	if err != nil {
		return 0, err
	}
	if scheduled > 0 {
		s.similar.Flush()
	}
	return scheduled, nil
}

func (s *embeddingService) RefreshNote(ctx context.Context, noteId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return err
	}
	if note == nil {
		// Deleted between publish and consume; nothing to refresh.
		s.logger.Warn("EmbeddingService", "Refresh skipped, note gone", map[string]interface{}{"note_id": noteId})
		return nil
	}

	scheduled, _, err := s.refreshNotes(ctx, uow, []*entity.Note{note})
	if err != nil {
		return err
	}
	if scheduled > 0 {
		s.similar.Flush()
		s.logger.Info("EmbeddingService", "Embedding refreshed", map[string]interface{}{"note_id": noteId})
	}
	return nil
}

func (s *embeddingService) SearchSimilar(ctx context.Context, ownerId, noteId uuid.UUID, limit int, minScore float64) ([]*dto.SimilarNoteResponse, error) {
	if minScore < -1 || minScore > 1 {
		return nil, apperror.Validation("min_score out of range", map[string]string{
			"min_score": "must be between -1 and 1",
		})
	}
	if limit <= 0 {
		limit = s.cfg.SimilarDefaultLimit
	}
	if limit > s.cfg.SimilarMaxLimit {
		limit = s.cfg.SimilarMaxLimit
	}

	cacheKey := fmt.Sprintf("similar:%s:%s:%d:%.6f", ownerId, noteId, limit, minScore)
	if hit, ok := s.similar.Get(cacheKey); ok {
		return hit.([]*dto.SimilarNoteResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: noteId},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NotFound("note not found")
	}

	target, err := uow.NoteEmbeddingRepository().FindOne(ctx, specification.ByNoteID{NoteID: noteId})
	if err != nil {
		return nil, err
	}
	if target == nil || target.IsDeleted {
		return nil, apperror.NotFound("note has no embedding yet, rebuild first")
	}

	results := []*dto.SimilarNoteResponse{}
	if embedding.IsZero(target.Vector) {
		// Empty notes rank nothing.
		s.similar.Set(cacheKey, results, cache.DefaultExpiration)
		return results, nil
	}

	candidates, err := uow.NoteEmbeddingRepository().FindAllByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	type scored struct {
		emb   *entity.NoteEmbedding
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.NoteId == noteId || embedding.IsZero(c.Vector) {
			continue
		}
		score := embedding.Cosine(target.Vector, c.Vector)
		if score < minScore {
			continue
		}
		ranked = append(ranked, scored{emb: c, score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		ti, tj := effectiveTime(ranked[i].emb), effectiveTime(ranked[j].emb)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ranked[i].emb.NoteId.String() < ranked[j].emb.NoteId.String()
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	rankedIds := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		rankedIds[i] = r.emb.NoteId
	}
	titles, err := s.noteTitles(ctx, uow, ownerId, rankedIds)
	if err != nil {
		return nil, err
	}

	for _, r := range ranked {
		results = append(results, &dto.SimilarNoteResponse{
			NoteId: r.emb.NoteId,
			Title:  titles[r.emb.NoteId],
			Score:  r.score,
		})
	}

	s.similar.Set(cacheKey, results, cache.DefaultExpiration)
	return results, nil

}

func (s *embeddingService) noteTitles(ctx context.Context, uow unitofwork.UnitOfWork, ownerId uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.OwnedBy{OwnerID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		titles[n.Id] = n.Title
	}
	return titles, nil
}

// effectiveTime is the tie-break clock: the embedding's last update, falling
// back to creation for rows never recomputed.
func effectiveTime(e *entity.NoteEmbedding) time.Time {
	if e.UpdatedAt != nil {
		return *e.UpdatedAt
	}
	return e.CreatedAt
}

func sortNotesForRebuild(notes []*entity.Note) {
	sort.Slice(notes, func(i, j int) bool {
		ti, tj := noteEffectiveTime(notes[i]), noteEffectiveTime(notes[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return notes[i].Id.String() < notes[j].Id.String()
	})
}

func noteEffectiveTime(n *entity.Note) time.Time {
	if n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}

func dedupeIds(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
