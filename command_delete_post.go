package blog

import (
	"context"
	"time"

	"github.com/goliatone/go-blog/storage"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type DeletePostMessage struct {
	ID      string  `json:"id"`
	Session Session `json:"-"`
}

func (e DeletePostMessage) Type() string { return "post.delete" }

type DeletePostHandler struct {
	Repo   RepositoryManager
	Images storage.ImageStore
	Logger Logger
}

func (h *DeletePostHandler) Execute(ctx context.Context, event DeletePostMessage) error {
	var imageKey string
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		post, err := h.Repo.Posts().GetByID(ctx, event.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrPostNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load post")
		}

		if err := RequireOwner(event.Session, post); err != nil {
			return err
		}

		imageKey = post.ImageKey

		if err := h.Repo.Posts().DeleteTx(ctx, tx, post.ID.String()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete post")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "post delete transaction failed")
	}

	// The record is gone; losing the blob is recoverable garbage, not an error.
	if imageKey != "" && h.Images != nil {
		if err := h.Images.Remove(ctx, imageKey); err != nil {
			h.logger().Warn("failed to remove post image", "key", imageKey, "error", err)
		}
	}

	return nil
}

func (h *DeletePostHandler) logger() Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defLogger{}
}
