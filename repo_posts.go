package blog

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Posts is the persistence boundary for post records. The interface lists
// only what callers use; List and Delete here take an id, not a record, so
// the generic repository surface stays an implementation detail of the
// backing struct.
type Posts interface {
	List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Post, error)
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Post, error)
	Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.InsertCriteria) (*Post, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.UpdateCriteria) (*Post, error)
	Delete(ctx context.Context, id string) error
	DeleteTx(ctx context.Context, tx bun.IDB, id string) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

// List returns every post, newest first.
func (a *posts) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Post, error) {
	var records []*Post

	q := a.db.NewSelect().Model(&records)
	for _, c := range criteria {
		q.Apply(c)
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (a *posts) Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *posts) CreateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *posts) Delete(ctx context.Context, id string) error {
	return a.DeleteTx(ctx, a.db, id)
}

func (a *posts) DeleteTx(ctx context.Context, tx bun.IDB, id string) error {
	res, err := tx.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id,
			})
	}

	return nil
}
