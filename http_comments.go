package blog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// CommentsController serves comments nested under posts.
type CommentsController struct {
	Logger     Logger
	Repo       RepositoryManager
	ContextKey string
}

type CommentsControllerOption func(*CommentsController) *CommentsController

func NewCommentsController(opts ...CommentsControllerOption) *CommentsController {
	c := &CommentsController{
		Logger:     defLogger{},
		ContextKey: DefaultContextKey,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in comments controller...")
	}

	return c
}

func WithCommentsRepo(repo RepositoryManager) CommentsControllerOption {
	return func(c *CommentsController) *CommentsController {
		c.Repo = repo
		return c
	}
}

func WithCommentsLogger(logger Logger) CommentsControllerOption {
	return func(c *CommentsController) *CommentsController {
		c.Logger = logger
		return c
	}
}

func WithCommentsContextKey(key string) CommentsControllerOption {
	return func(c *CommentsController) *CommentsController {
		c.ContextKey = key
		return c
	}
}

// ListByPost handles GET /api/posts/:id/comments.
func (h *CommentsController) ListByPost(c *fiber.Ctx) error {
	postID := c.Params("id")

	if _, err := h.Repo.Posts().GetByID(c.UserContext(), postID); err != nil {
		if repository.IsRecordNotFound(err) {
			return WriteError(c, h.Logger, ErrPostNotFound)
		}
		h.Logger.Error("fetch post for comments", "post", postID, "error", err)
		return WriteError(c, h.Logger, err)
	}

	comments, err := h.Repo.Comments().ListByPost(c.UserContext(), postID)
	if err != nil {
		h.Logger.Error("list comments", "post", postID, "error", err)
		return WriteError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"comments": comments,
	})
}

// CommentPayload carries the editable comment fields.
type CommentPayload struct {
	Text string `form:"text" json:"text"`
}

// Create handles POST /api/posts/:id/comments.
func (h *CommentsController) Create(c *fiber.Ctx) error {
	payload := new(CommentPayload)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Error("create comment parse payload", "error", err)
		return WriteError(c, h.Logger, errors.Wrap(err, errors.CategoryValidation, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	session, err := SessionFromContext(c, h.ContextKey)
	if err != nil {
		return WriteError(c, h.Logger, ErrUnauthorized)
	}

	createComment := CreateCommentHandler{Repo: h.Repo, Logger: h.Logger}
	comment, err := createComment.Execute(c.UserContext(), CreateCommentMessage{
		PostID:  c.Params("id"),
		Text:    payload.Text,
		Session: session,
	})
	if err != nil {
		return WriteError(c, h.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment posted!",
		"comment": comment,
	})
}

// Update handles PUT /api/comments/:id.
func (h *CommentsController) Update(c *fiber.Ctx) error {
	payload := new(CommentPayload)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.Error("update comment parse payload", "error", err)
		return WriteError(c, h.Logger, errors.Wrap(err, errors.CategoryValidation, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	session, err := SessionFromContext(c, h.ContextKey)
	if err != nil {
		return WriteError(c, h.Logger, ErrUnauthorized)
	}

	updateComment := UpdateCommentHandler{Repo: h.Repo, Logger: h.Logger}
	comment, err := updateComment.Execute(c.UserContext(), UpdateCommentMessage{
		ID:      c.Params("id"),
		Text:    payload.Text,
		Session: session,
	})
	if err != nil {
		return WriteError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment updated successfully",
		"comment": comment,
	})
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentsController) Delete(c *fiber.Ctx) error {
	session, err := SessionFromContext(c, h.ContextKey)
	if err != nil {
		return WriteError(c, h.Logger, ErrUnauthorized)
	}

	deleteComment := DeleteCommentHandler{Repo: h.Repo, Logger: h.Logger}
	if err := deleteComment.Execute(c.UserContext(), DeleteCommentMessage{
		ID:      c.Params("id"),
		Session: session,
	}); err != nil {
		return WriteError(c, h.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment deleted successfully",
	})
}
