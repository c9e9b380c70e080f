package blog

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type DeleteCommentMessage struct {
	ID      string  `json:"id"`
	Session Session `json:"-"`
}

func (e DeleteCommentMessage) Type() string { return "comment.delete" }

type DeleteCommentHandler struct {
	Repo   RepositoryManager
	Logger Logger
}

func (h *DeleteCommentHandler) Execute(ctx context.Context, event DeleteCommentMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		comment, err := h.Repo.Comments().GetByID(ctx, event.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrCommentNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load comment")
		}

		if err := RequireOwner(event.Session, comment); err != nil {
			return err
		}

		if err := h.Repo.Comments().DeleteTx(ctx, tx, comment.ID.String()); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete comment")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "comment delete transaction failed")
	}

	return nil
}
