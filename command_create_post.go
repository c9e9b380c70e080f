package blog

import (
	"context"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-blog/storage"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// allowedImageTypes is the upload MIME allowlist.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type CreatePostMessage struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     io.Reader `json:"-"`
	ImageType string    `json:"-"`
	Session   Session   `json:"-"`
}

func (e CreatePostMessage) Type() string { return "post.create" }

func (e CreatePostMessage) Validate() error {
	if err := validation.Validate(e.Title, validation.Required); err != nil {
		return ErrPostContentRequired
	}

	if err := validation.Validate(e.Content, validation.Required); err != nil {
		return ErrPostContentRequired
	}

	if e.Image != nil {
		if _, ok := allowedImageTypes[e.ImageType]; !ok {
			return ErrInvalidImageType
		}
	}

	return nil
}

type CreatePostHandler struct {
	Repo   RepositoryManager
	Images storage.ImageStore
	Logger Logger
}

func (h *CreatePostHandler) Execute(ctx context.Context, event CreatePostMessage) (*Post, error) {
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

	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	post := &Post{
		ID:          uuid.New(),
		Title:       event.Title,
		Content:     event.Content,
		AuthorID:    authorID,
		AuthorEmail: event.Session.GetEmail(),
	}

	if event.Image != nil {
		key := post.ID.String() + allowedImageTypes[event.ImageType]
		url, err := h.Images.Save(ctx, key, event.ImageType, event.Image)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store post image")
		}
		post.ImageKey = key
		post.ImageType = event.ImageType
		post.ImageURL = url
	}

	created, err := h.Repo.Posts().Create(ctx, post)
	if err != nil {
		if post.ImageKey != "" {
			if rmErr := h.Images.Remove(ctx, post.ImageKey); rmErr != nil {
				h.logger().Warn("failed to clean up image after create error", "key", post.ImageKey, "error", rmErr)
			}
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create post")
	}

	return created, nil
}

func (h *CreatePostHandler) logger() Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defLogger{}
}
