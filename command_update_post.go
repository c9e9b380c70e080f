package blog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type UpdatePostMessage struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Session Session `json:"-"`
}

func (e UpdatePostMessage) Type() string { return "post.update" }

func (e UpdatePostMessage) Validate() error {
	if err := validation.Validate(e.Title, validation.Required); err != nil {
		return ErrPostContentRequired
	}

	if err := validation.Validate(e.Content, validation.Required); err != nil {
		return ErrPostContentRequired
	}

	return nil
}

type UpdatePostHandler struct {
	Repo   RepositoryManager
	Logger Logger
}

func (h *UpdatePostHandler) Execute(ctx context.Context, event UpdatePostMessage) (*Post, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	var post *Post
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		post, err = h.Repo.Posts().GetByID(ctx, event.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrPostNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load post")
		}

		if err := RequireOwner(event.Session, post); err != nil {
			return err
		}

		post.Title = event.Title
		post.Content = event.Content
		now := time.Now()
		post.UpdatedAt = &now

		if post, err = h.Repo.Posts().UpdateTx(ctx, tx, post, repository.UpdateByID(post.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update post")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "post update transaction failed")
	}

	return post, nil
}
