package service

import (
	"context"
	"sort"
	"time"

	"portfolio-notes-be/internal/entity"
	"portfolio-notes-be/internal/repository/contract"
	"portfolio-notes-be/internal/repository/specification"
	"portfolio-notes-be/internal/repository/unitofwork"
	"portfolio-notes-be/pkg/events"

	"github.com/google/uuid"
)

// In-memory store shared by the fake repositories. Filtering interprets the
// same specification structs the GORM implementations translate to SQL.
type fakeStore struct {
	notes      []*entity.Note
	embeddings []*entity.NoteEmbedding
	edges      []*entity.NoteEdge

	commits   int
	rollbacks int
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: &fakeStore{}}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
	inTx  bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if u.inTx {
		u.store.commits++
		u.inTx = false
	}
	return nil
}

func (u *fakeUow) Rollback() error {
	if u.inTx {
		u.store.rollbacks++
		u.inTx = false
	}
	return nil
}

func (u *fakeUow) NoteRepository() contract.NoteRepository {
	return &fakeNoteRepo{store: u.store}
}

func (u *fakeUow) NoteEmbeddingRepository() contract.NoteEmbeddingRepository {
	return &fakeEmbeddingRepo{store: u.store}
}

func (u *fakeUow) NoteEdgeRepository() contract.NoteEdgeRepository {
	return &fakeEdgeRepo{store: u.store}
}

// querySpecs splits filters from ordering and limit.
type querySpecs struct {
	ids         []uuid.UUID
	hasIDs      bool
	owner       uuid.UUID
	hasOwner    bool
	noteIds     []uuid.UUID
	hasNoteIds  bool
	status      string
	hasStatus   bool
	relation    string
	hasRelation bool
	touching    uuid.UUID
	hasTouching bool
	orders      []specification.OrderBy
	limit       int
	hasLimit    bool
}

func parseSpecs(specs []specification.Specification) querySpecs {
	var q querySpecs
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			q.ids = []uuid.UUID{v.ID}
			q.hasIDs = true
		case specification.ByIDs:
			q.ids = v.IDs
			q.hasIDs = true
		case specification.OwnedBy:
			q.owner = v.OwnerID
			q.hasOwner = true
		case specification.ByNoteID:
			q.noteIds = []uuid.UUID{v.NoteID}
			q.hasNoteIds = true
		case specification.ByNoteIDs:
			q.noteIds = v.NoteIDs
			q.hasNoteIds = true
		case specification.ByStatus:
			q.status = v.Status
			q.hasStatus = true
		case specification.ByRelationType:
			q.relation = v.RelationType
			q.hasRelation = true
		case specification.TouchingNote:
			q.touching = v.NoteID
			q.hasTouching = true
		case specification.OrderBy:
			q.orders = append(q.orders, v)
		case specification.Limit:
			q.limit = v.N
			q.hasLimit = true
		}
	}
	return q
}

func containsId(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type fakeNoteRepo struct {
	store *fakeStore
}

func (r *fakeNoteRepo) matches(n *entity.Note, q querySpecs) bool {
	if n.IsDeleted {
		return false
	}
	if q.hasIDs && !containsId(q.ids, n.Id) {
		return false
	}
	if q.hasOwner && n.OwnerId != q.owner {
		return false
	}
	return true
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	q := parseSpecs(specs)
	for _, n := range r.store.notes {
		if r.matches(n, q) {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	q := parseSpecs(specs)
	var out []*entity.Note
	for _, n := range r.store.notes {
		if r.matches(n, q) {
			out = append(out, n)
		}
	}
	for i := len(q.orders) - 1; i >= 0; i-- {
		order := q.orders[i]
		sort.SliceStable(out, func(a, b int) bool {
			var less bool
			switch order.Field {
			case "updated_at":
				less = noteTime(out[a]).Before(noteTime(out[b]))
			default: // "id"
				less = out[a].Id.String() < out[b].Id.String()
			}
			if order.Desc {
				return !less && !equalNoteKey(out[a], out[b], order.Field)
			}
			return less
		})
	}
	if q.hasLimit && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func noteTime(n *entity.Note) time.Time {
	if n.UpdatedAt != nil {
		return *n.UpdatedAt
	}
	return n.CreatedAt
}

func equalNoteKey(a, b *entity.Note, field string) bool {
	switch field {
	case "updated_at":
		return noteTime(a).Equal(noteTime(b))
	default:
		return a.Id == b.Id
	}
}

type fakeEmbeddingRepo struct {
	store *fakeStore
}

func (r *fakeEmbeddingRepo) Upsert(ctx context.Context, embedding *entity.NoteEmbedding) error {
	for i, e := range r.store.embeddings {
		if e.NoteId == embedding.NoteId {
			r.store.embeddings[i] = embedding
			return nil
		}
	}
	r.store.embeddings = append(r.store.embeddings, embedding)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	out := r.store.embeddings[:0]
	for _, e := range r.store.embeddings {
		if e.NoteId != noteId {
			out = append(out, e)
		}
	}
	r.store.embeddings = out
	return nil
}

func (r *fakeEmbeddingRepo) matches(e *entity.NoteEmbedding, q querySpecs) bool {
	if e.IsDeleted {
		return false
	}
	if q.hasIDs && !containsId(q.ids, e.Id) {
		return false
	}
	if q.hasNoteIds && !containsId(q.noteIds, e.NoteId) {
		return false
	}
	return true
}

func (r *fakeEmbeddingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEmbedding, error) {
	q := parseSpecs(specs)
	for _, e := range r.store.embeddings {
		if r.matches(e, q) {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEmbedding, error) {
	q := parseSpecs(specs)
	var out []*entity.NoteEmbedding
	for _, e := range r.store.embeddings {
		if r.matches(e, q) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeEmbeddingRepo) FindAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.NoteEmbedding, error) {
	liveNotes := make(map[uuid.UUID]bool)
	for _, n := range r.store.notes {
		if !n.IsDeleted && n.OwnerId == ownerId {
			liveNotes[n.Id] = true
		}
	}
	var out []*entity.NoteEmbedding
	for _, e := range r.store.embeddings {
		if !e.IsDeleted && liveNotes[e.NoteId] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NoteId.String() < out[j].NoteId.String()
	})
	return out, nil
}

type fakeEdgeRepo struct {
	store *fakeStore
}

func (r *fakeEdgeRepo) Create(ctx context.Context, edge *entity.NoteEdge) error {
	copied := *edge
	r.store.edges = append(r.store.edges, &copied)
	return nil
}

func (r *fakeEdgeRepo) Update(ctx context.Context, edge *entity.NoteEdge) error {
	for i, e := range r.store.edges {
		if e.Id == edge.Id {
			copied := *edge
			r.store.edges[i] = &copied
			return nil
		}
	}
	return nil
}

func (r *fakeEdgeRepo) matches(e *entity.NoteEdge, q querySpecs) bool {
	if q.hasIDs && !containsId(q.ids, e.Id) {
		return false
	}
	if q.hasOwner && e.OwnerId != q.owner {
		return false
	}
	if q.hasStatus && e.Status != q.status {
		return false
	}
	if q.hasRelation && e.RelationType != q.relation {
		return false
	}
	if q.hasTouching && !e.Touches(q.touching) {
		return false
	}
	return true
}

func (r *fakeEdgeRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.NoteEdge, error) {
	q := parseSpecs(specs)
	for _, e := range r.store.edges {
		if r.matches(e, q) {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEdgeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NoteEdge, error) {
	q := parseSpecs(specs)
	var out []*entity.NoteEdge
	for _, e := range r.store.edges {
		if r.matches(e, q) {
			copied := *e
			out = append(out, &copied)
		}
	}
	for i := len(q.orders) - 1; i >= 0; i-- {
		order := q.orders[i]
		sort.SliceStable(out, func(a, b int) bool {
			var less, equal bool
			switch order.Field {
			case "weight":
				less = out[a].Weight < out[b].Weight
				equal = out[a].Weight == out[b].Weight
			default: // "id"
				less = out[a].Id.String() < out[b].Id.String()
				equal = out[a].Id == out[b].Id
			}
			if order.Desc {
				return !less && !equal
			}
			return less
		})
	}
	if q.hasLimit && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out, nil
}

func (r *fakeEdgeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// fakePublisher records published bus events.
type fakePublisher struct {
	published []events.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}
