package implementation

import (
	"context"
	"errors"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/mapper"
	"portfolio-notes-be/internal/model"
	"portfolio-notes-be/internal/repository/contract"
	"portfolio-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteEmbeddingMapper
}

func NewNoteEmbeddingRepository(db *gorm.DB) contract.NoteEmbeddingRepository {
	return &NoteEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteEmbeddingMapper(),
	}
}

func (r *NoteEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.NoteEmbedding) error {
	m := r.mapper.ToModel(embedding)

	// One row per note; a recompute replaces vector and hash in place.
	// RETURNING keeps m on the persisted row's id when the conflict
	// branch fires instead of the freshly generated one.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding_value", "content_hash", "updated_at", "deleted_at"}),
	}, clause.Returning{}).Create(m).Error
	if err != nil {
		return err
	}

	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteEmbeddingRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.NoteEmbedding{}).Error
}

func (r *NoteEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEmbedding, error) {
	var m model.NoteEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error) {
	var models []*model.NoteEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.NoteEmbedding{}).Count(&count).Error
	return count, err
}

func (r *NoteEmbeddingRepositoryImpl) FindAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.NoteEmbedding, error) {
	var models []*model.NoteEmbedding

	// note_id ordering keeps repeated scans deterministic.
	err := r.db.WithContext(ctx).
		Joins("JOIN notes ON notes.id = note_embeddings.note_id").
		Where("notes.owner_id = ?", ownerId).
		Where("note_embeddings.deleted_at IS NULL").
		Where("notes.deleted_at IS NULL").
		Order("note_embeddings.note_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}
