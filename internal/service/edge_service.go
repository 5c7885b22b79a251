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
	"portfolio-notes-be/pkg/events"

	"github.com/google/uuid"
)

// EventPublisher is the slice of the NATS publisher the edge service needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type INoteEdgeService interface {
	GenerateCandidates(ctx context.Context, ownerId uuid.UUID) (*dto.GenerateCandidatesResponse, error)
	ListCandidates(ctx context.Context, ownerId uuid.UUID) ([]*dto.NoteEdgeResponse, error)
	ListEdgesForNote(ctx context.Context, ownerId, noteId uuid.UUID) ([]*dto.NoteEdgeResponse, error)
	Confirm(ctx context.Context, ownerId, edgeId uuid.UUID) (*dto.NoteEdgeResponse, error)
	Reject(ctx context.Context, ownerId, edgeId uuid.UUID) (*dto.NoteEdgeResponse, error)
}

type EdgeServiceConfig struct {
	SimilarityThreshold float64
	PairScanCeiling     int
}

type noteEdgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	embeddingService IEmbeddingService
	publisher        EventPublisher
	cfg              EdgeServiceConfig
	logger           logger.ILogger
}

func NewNoteEdgeService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingService IEmbeddingService,
	publisher EventPublisher,
	cfg EdgeServiceConfig,
	log logger.ILogger,
) INoteEdgeService {
	return &noteEdgeService{
		uowFactory:       uowFactory,
		embeddingService: embeddingService,
		publisher:        publisher,
		cfg:              cfg,
		logger:           log,
	}
}

func (s *noteEdgeService) GenerateCandidates(ctx context.Context, ownerId uuid.UUID) (*dto.GenerateCandidatesResponse, error) {
	// Candidate quality depends on embeddings being current, so refresh
	// everything stale before scoring pairs.
	if _, err := s.embeddingService.RefreshOwnerNotes(ctx, ownerId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	embeddings, err := uow.NoteEmbeddingRepository().FindAllByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	n := len(embeddings)
	pairs := n * (n - 1) / 2
	if pairs > s.cfg.PairScanCeiling {
		return nil, apperror.Validation("too many notes for a full pair scan", map[string]string{
			"notes": fmt.Sprintf("%d notes produce %d pairs, ceiling is %d", n, pairs, s.cfg.PairScanCeiling),
		})
	}

	existing, err := uow.NoteEdgeRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.ByRelationType{RelationType: entity.RelationTypeSimilar},
	)
	if err != nil {
		return nil, err
	}
	byPair := make(map[string]*entity.NoteEdge, len(existing))
	for _, e := range existing {
		byPair[pairKey(e.FromId, e.ToId)] = e
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	created, refreshed := 0, 0
	touched := make([]*entity.NoteEdge, 0)

	for i := 0; i < n; i++ {
		if embedding.IsZero(embeddings[i].Vector) {
			continue
		}
		for j := i + 1; j < n; j++ {
			if embedding.IsZero(embeddings[j].Vector) {
				continue
			}
			score := embedding.Cosine(embeddings[i].Vector, embeddings[j].Vector)
			if score < s.cfg.SimilarityThreshold {
				continue
			}

			from, to := entity.CanonicalPair(embeddings[i].NoteId, embeddings[j].NoteId)

			if prev, ok := byPair[pairKey(from, to)]; ok {
				// A decided edge stays decided; only live proposals track
				// the current score.
				if prev.Status != entity.EdgeStatusPending || prev.Origin != entity.EdgeOriginAuto {
					continue
				}
				// Every qualifying PENDING pair is part of the result, but
				// an unchanged score skips the write.
				if prev.Weight != score {
					now := time.Now()
					prev.Weight = score
					prev.Reason = candidateReason(score, s.cfg.SimilarityThreshold)
					prev.UpdatedAt = &now
					if err := uow.NoteEdgeRepository().Update(ctx, prev); err != nil {
						return nil, err
					}
					refreshed++
				}
				touched = append(touched, prev)
				continue
			}

			edge := &entity.NoteEdge{
				Id:           uuid.New(),
				OwnerId:      ownerId,
				FromId:       from,
				ToId:         to,
				RelationType: entity.RelationTypeSimilar,
				Weight:       score,
				Status:       entity.EdgeStatusPending,
				Origin:       entity.EdgeOriginAuto,
				Reason:       candidateReason(score, s.cfg.SimilarityThreshold),
				CreatedAt:    time.Now(),
			}
			if err := uow.NoteEdgeRepository().Create(ctx, edge); err != nil {
				return nil, err
			}
			byPair[pairKey(from, to)] = edge
			created++
			touched = append(touched, edge)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if created > 0 && s.publisher != nil {
		event := events.NewEvent(events.EdgeCandidatesGenerated, map[string]interface{}{
			"owner_id": ownerId.String(),
			"created":  created,
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			// Discovery already committed; the notification is best effort.
			s.logger.Error("NoteEdgeService", "Failed to publish candidate event", map[string]interface{}{
				"owner_id": ownerId,
				"error":    err.Error(),
			})
		}
	}

	sort.Slice(touched, func(i, j int) bool {
		if touched[i].Weight != touched[j].Weight {
			return touched[i].Weight > touched[j].Weight
		}
		return touched[i].Id.String() < touched[j].Id.String()
	})

	return &dto.GenerateCandidatesResponse{
		Created:   created,
		Refreshed: refreshed,
		Edges:     toEdgeResponses(touched),
	}, nil
}

func (s *noteEdgeService) ListCandidates(ctx context.Context, ownerId uuid.UUID) ([]*dto.NoteEdgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	edges, err := uow.NoteEdgeRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.ByStatus{Status: entity.EdgeStatusPending},
		specification.OrderBy{Field: "weight", Desc: true},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	return toEdgeResponses(edges), nil
}

func (s *noteEdgeService) ListEdgesForNote(ctx context.Context, ownerId, noteId uuid.UUID) ([]*dto.NoteEdgeResponse, error) {
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

	edges, err := uow.NoteEdgeRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerId},
		specification.TouchingNote{NoteID: noteId},
		specification.OrderBy{Field: "weight", Desc: true},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	return toEdgeResponses(edges), nil
}

func (s *noteEdgeService) Confirm(ctx context.Context, ownerId, edgeId uuid.UUID) (*dto.NoteEdgeResponse, error) {
	return s.transition(ctx, ownerId, edgeId, entity.EdgeStatusConfirmed)
}

func (s *noteEdgeService) Reject(ctx context.Context, ownerId, edgeId uuid.UUID) (*dto.NoteEdgeResponse, error) {
	return s.transition(ctx, ownerId, edgeId, entity.EdgeStatusRejected)
}

// transition moves a PENDING edge to a terminal status. Lookup is global so
// a foreign owner's edge yields FORBIDDEN, not NOT_FOUND.
func (s *noteEdgeService) transition(ctx context.Context, ownerId, edgeId uuid.UUID, status string) (*dto.NoteEdgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	edge, err := uow.NoteEdgeRepository().FindOne(ctx, specification.ByID{ID: edgeId})
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, apperror.NotFound("edge not found")
	}
	if edge.OwnerId != ownerId {
		return nil, apperror.Forbidden("edge belongs to another owner")
	}
	if edge.Status != entity.EdgeStatusPending {
		return nil, apperror.Conflict(fmt.Sprintf("edge already %s", edge.Status))
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	edge.Status = status
	edge.UpdatedAt = &now
	if err := uow.NoteEdgeRepository().Update(ctx, edge); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return toEdgeResponse(edge), nil
}

func pairKey(from, to uuid.UUID) string {
	return from.String() + ":" + to.String()
}

func candidateReason(score, threshold float64) string {
	return fmt.Sprintf("cosine similarity %.4f above threshold %.2f", score, threshold)
}

func toEdgeResponse(e *entity.NoteEdge) *dto.NoteEdgeResponse {
	return &dto.NoteEdgeResponse{
		Id:           e.Id,
		FromId:       e.FromId,
		ToId:         e.ToId,
		RelationType: e.RelationType,
		Weight:       e.Weight,
		Status:       e.Status,
		Origin:       e.Origin,
		Reason:       e.Reason,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toEdgeResponses(edges []*entity.NoteEdge) []*dto.NoteEdgeResponse {
	out := make([]*dto.NoteEdgeResponse, len(edges))
	for i, e := range edges {
		out[i] = toEdgeResponse(e)
	}
	return out
}
