package blog

import (
	"github.com/gofiber/fiber/v2"
)

// RouterDeps bundles everything the HTTP layer needs wired in.
type RouterDeps struct {
	Auth     *AuthController
	Posts    *PostsController
	Comments *CommentsController
	Gate     fiber.Handler
}

// RegisterRoutes mounts the public surface. Every mutation, posts and
// comments alike, sits behind the session gate. Reads stay open.
func RegisterRoutes(app *fiber.App, deps RouterDeps) {
	app.Post("/auth/signup", deps.Auth.SignUp)
	app.Post("/auth/session", deps.Auth.SessionCreate)
	app.Delete("/auth/session", deps.Auth.SessionDestroy)

	api := app.Group("/api")

	api.Get("/posts", deps.Posts.List)
	api.Get("/posts/:id", deps.Posts.Show)
	api.Get("/posts/:id/image", deps.Posts.ShowImage)
	api.Get("/posts/:id/comments", deps.Comments.ListByPost)

	api.Post("/posts", deps.Gate, deps.Posts.Create)
	api.Put("/posts/:id", deps.Gate, deps.Posts.Update)
	api.Delete("/posts/:id", deps.Gate, deps.Posts.Delete)

	api.Post("/posts/:id/comments", deps.Gate, deps.Comments.Create)
	api.Put("/comments/:id", deps.Gate, deps.Comments.Update)
	api.Delete("/comments/:id", deps.Gate, deps.Comments.Delete)
}
