package blog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-blog/storage"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// PostsController serves the post collection. Reads are public, writes go
// through the session gate before they reach these handlers.
type PostsController struct {
	Logger     Logger
	Repo       RepositoryManager
	Images     storage.ImageStore
	ContextKey string
}

type PostsControllerOption func(*PostsController) *PostsController

func NewPostsController(opts ...PostsControllerOption) *PostsController {
	c := &PostsController{
		Logger:     defLogger{},
		ContextKey: DefaultContextKey,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in posts controller...")
	}

	if c.Images == nil {
		panic("Missing ImageStore in posts controller...")
	}

	return c
}

func WithPostsRepo(repo RepositoryManager) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.Repo = repo
		return c
	}
}

func WithPostsLogger(logger Logger) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.Logger = logger
		return c
	}
}

func WithPostsImages(images storage.ImageStore) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.Images = images
		return c
	}
}

func WithPostsContextKey(key string) PostsControllerOption {
	return func(c *PostsController) *PostsController {
		c.ContextKey = key
		return c
	}
}

// List handles GET /api/posts, newest first.
func (p *PostsController) List(c *fiber.Ctx) error {
	posts, err := p.Repo.Posts().List(c.UserContext())
	if err != nil {
		p.Logger.Error("list posts", "error", err)
		return WriteError(c, p.Logger, err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
	})
}

// Show handles GET /api/posts/:id.
func (p *PostsController) Show(c *fiber.Ctx) error {
	post, err := p.Repo.Posts().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return WriteError(c, p.Logger, p.notFoundOr(err))
	}

	return c.JSON(fiber.Map{
		"post": post,
	})
}

// ShowImage handles GET /api/posts/:id/image and streams the stored blob.
func (p *PostsController) ShowImage(c *fiber.Ctx) error {
	post, err := p.Repo.Posts().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return WriteError(c, p.Logger, p.notFoundOr(err))
	}

	if !post.HasImage() {
		return WriteError(c, p.Logger, ErrImageNotFound)
	}

	body, contentType, err := p.Images.Open(c.UserContext(), post.ImageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return WriteError(c, p.Logger, ErrImageNotFound)
		}
		p.Logger.Error("open post image", "post", post.ID, "error", err)
		return WriteError(c, p.Logger, err)
	}
	defer body.Close()

	if contentType == "" {
		contentType = post.ImageType
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(body)
}

// Create handles POST /api/posts. The payload is multipart so an image can
// ride along with the text fields.
func (p *PostsController) Create(c *fiber.Ctx) error {
	session, err := SessionFromContext(c, p.ContextKey)
	if err != nil {
		return WriteError(c, p.Logger, ErrUnauthorized)
	}

	message := CreatePostMessage{
		Title:   c.FormValue("title"),
		Content: c.FormValue("content"),
		Session: session,
	}

	if header, err := c.FormFile("image"); err == nil && header != nil {
		file, err := header.Open()
		if err != nil {
			p.Logger.Error("open uploaded image", "error", err)
			return WriteError(c, p.Logger, errors.Wrap(err, errors.CategoryValidation, "Failed to read uploaded image").
				WithCode(errors.CodeBadRequest))
		}
		defer file.Close()

		message.Image = file
		message.ImageType = header.Header.Get(fiber.HeaderContentType)
	}

	createPost := CreatePostHandler{Repo: p.Repo, Images: p.Images, Logger: p.Logger}
	post, err := createPost.Execute(c.UserContext(), message)
	if err != nil {
		return WriteError(c, p.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully!",
		"post":    post,
	})
}

// PostPayload carries the editable post fields for updates.
type PostPayload struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

// Update handles PUT /api/posts/:id.
func (p *PostsController) Update(c *fiber.Ctx) error {
	payload := new(PostPayload)
	if err := c.BodyParser(payload); err != nil {
		p.Logger.Error("update post parse payload", "error", err)
		return WriteError(c, p.Logger, errors.Wrap(err, errors.CategoryValidation, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	session, err := SessionFromContext(c, p.ContextKey)
	if err != nil {
		return WriteError(c, p.Logger, ErrUnauthorized)
	}

	updatePost := UpdatePostHandler{Repo: p.Repo, Logger: p.Logger}
	post, err := updatePost.Execute(c.UserContext(), UpdatePostMessage{
		ID:      c.Params("id"),
		Title:   payload.Title,
		Content: payload.Content,
		Session: session,
	})
	if err != nil {
		return WriteError(c, p.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully!",
		"post":    post,
	})
}

// Delete handles DELETE /api/posts/:id.
func (p *PostsController) Delete(c *fiber.Ctx) error {
	session, err := SessionFromContext(c, p.ContextKey)
	if err != nil {
		return WriteError(c, p.Logger, ErrUnauthorized)
	}

	deletePost := DeletePostHandler{Repo: p.Repo, Images: p.Images, Logger: p.Logger}
	if err := deletePost.Execute(c.UserContext(), DeletePostMessage{
		ID:      c.Params("id"),
		Session: session,
	}); err != nil {
		return WriteError(c, p.Logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted successfully.",
	})
}

func (p *PostsController) notFoundOr(err error) error {
	if repository.IsRecordNotFound(err) {
		return ErrPostNotFound
	}
	p.Logger.Error("fetch post", "error", err)
	return err
}
