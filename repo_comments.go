package blog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comments is the persistence boundary for comment records. Like Posts it
// declares only the call surface; Delete takes an id, so the generic
// repository stays behind the backing struct.
type Comments interface {
	ListByPost(ctx context.Context, postID string) ([]*Comment, error)
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Comment, error)
	Create(ctx context.Context, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Comment, criteria ...repository.UpdateCriteria) (*Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteTx(ctx context.Context, tx bun.IDB, id string) error
}

type comments struct {
	repository.Repository[*Comment]
	db *bun.DB
}

var _ Comments = (*comments)(nil)

func NewCommentsRepository(db *bun.DB) Comments {
	repo := repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &comments{
		Repository: repo,
		db:         db,
	}
}

// ListByPost returns the comments for a post, newest first.
func (a *comments) ListByPost(ctx context.Context, postID string) ([]*Comment, error) {
	var records []*Comment

	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.post_id = ?", postID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Comment{}, nil
		}
		return nil, err
	}

	return records, nil
}

func (a *comments) Create(ctx context.Context, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *comments) CreateTx(ctx context.Context, tx bun.IDB, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *comments) Delete(ctx context.Context, id string) error {
	return a.DeleteTx(ctx, a.db, id)
}

func (a *comments) DeleteTx(ctx context.Context, tx bun.IDB, id string) error {
	res, err := tx.NewDelete().
		Model((*Comment)(nil)).
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
