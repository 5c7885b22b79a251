package mapper

import (
	"time"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/model"
)

type NoteEdgeMapper struct{}

func NewNoteEdgeMapper() *NoteEdgeMapper {
	return &NoteEdgeMapper{}
}

func (m *NoteEdgeMapper) ToEntity(e *model.NoteEdge) *entity.NoteEdge {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.NoteEdge{
		Id:           e.Id,
		OwnerId:      e.OwnerId,
		FromId:       e.FromId,
		ToId:         e.ToId,
		RelationType: e.RelationType,
		Weight:       e.Weight,
		Status:       e.Status,
		Origin:       e.Origin,
		Reason:       e.Reason,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *NoteEdgeMapper) ToModel(e *entity.NoteEdge) *model.NoteEdge {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.NoteEdge{
		Id:           e.Id,
		OwnerId:      e.OwnerId,
		FromId:       e.FromId,
		ToId:         e.ToId,
		RelationType: e.RelationType,
		Weight:       e.Weight,
		Status:       e.Status,
		Origin:       e.Origin,
		Reason:       e.Reason,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *NoteEdgeMapper) ToEntities(edges []*model.NoteEdge) []*entity.NoteEdge {
	entities := make([]*entity.NoteEdge, len(edges))
	for i, e := range edges {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
