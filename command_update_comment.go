package blog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type UpdateCommentMessage struct {
	ID      string  `json:"id"`
	Text    string  `json:"text"`
	Session Session `json:"-"`
}

func (e UpdateCommentMessage) Type() string { return "comment.update" }

func (e UpdateCommentMessage) Validate() error {
	if err := validation.Validate(e.Text, validation.Required); err != nil {
		return ErrCommentTextRequired
	}
	return nil
}

type UpdateCommentHandler struct {
	Repo   RepositoryManager
	Logger Logger
}

func (h *UpdateCommentHandler) Execute(ctx context.Context, event UpdateCommentMessage) (*Comment, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	var comment *Comment
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		comment, err = h.Repo.Comments().GetByID(ctx, event.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrCommentNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load comment")
		}

		if err := RequireOwner(event.Session, comment); err != nil {
			return err
		}

		comment.Text = event.Text
		now := time.Now()
		comment.UpdatedAt = &now

		if comment, err = h.Repo.Comments().UpdateTx(ctx, tx, comment, repository.UpdateByID(comment.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update comment")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "comment update transaction failed")
	}

	return comment, nil
}
