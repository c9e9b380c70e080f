package blog

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

type CreateCommentMessage struct {
	PostID  string  `json:"post_id"`
	Text    string  `json:"text"`
	Session Session `json:"-"`
}

func (e CreateCommentMessage) Type() string { return "comment.create" }

func (e CreateCommentMessage) Validate() error {
	if err := validation.Validate(e.Text, validation.Required); err != nil {
		return ErrCommentTextRequired
	}
	return nil
}

type CreateCommentHandler struct {
	Repo   RepositoryManager
	Logger Logger
}

func (h *CreateCommentHandler) Execute(ctx context.Context, event CreateCommentMessage) (*Comment, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if event.Session == nil {
		return nil, ErrUnauthorized
	}

	authorID, err := event.Session.GetUserUUID()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "session carries an invalid user id").
			WithCode(goerrors.CodeUnauthorized)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	post, err := h.Repo.Posts().GetByID(ctx, event.PostID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load post")
	}

	comment := &Comment{
		ID:          uuid.New(),
		PostID:      post.ID,
		Text:        event.Text,
		AuthorID:    authorID,
		AuthorEmail: event.Session.GetEmail(),
	}

	created, err := h.Repo.Comments().Create(ctx, comment)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create comment")
	}

	return created, nil
}
