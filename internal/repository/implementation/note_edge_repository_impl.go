package implementation

import (
	"context"
	"errors"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/mapper"
	"portfolio-notes-be/internal/model"
	"portfolio-notes-be/internal/repository/contract"
	"portfolio-notes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteEdgeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteEdgeMapper
}

func NewNoteEdgeRepository(db *gorm.DB) contract.NoteEdgeRepository {
	return &NoteEdgeRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteEdgeMapper(),
	}
}

func (r *NoteEdgeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteEdgeRepositoryImpl) Create(ctx context.Context, edge *entity.NoteEdge) error {
	m := r.mapper.ToModel(edge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*edge = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteEdgeRepositoryImpl) Update(ctx context.Context, edge *entity.NoteEdge) error {
	m := r.mapper.ToModel(edge)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*edge = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteEdgeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEdge, error) {
	var m model.NoteEdge
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteEdgeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEdge, error) {
	var models []*model.NoteEdge
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteEdgeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.NoteEdge{}).Count(&count).Error
	return count, err
}
