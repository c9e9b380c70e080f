package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleMember is the default role for self-registered users
	RoleMember UserRole = "member"
	// RoleAdmin may moderate any post or comment
	RoleAdmin UserRole = "admin"
	// RoleOwner is the instance owner
	RoleOwner UserRole = "owner"
)

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// IsModerator reports whether the role can mutate resources it does not own.
func IsModerator(r UserRole) bool {
	return r == RoleAdmin || r == RoleOwner
}

// User is the identity record. Created by the registrar, immutable after
// that; there is no profile-edit path.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Picture       string     `bun:"picture" json:"picture,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Post is a text entry with an optional image held in the image store.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Content       string     `bun:"content,notnull" json:"content"`
	ImageKey      string     `bun:"image_key" json:"image_key,omitempty"`
	ImageType     string     `bun:"image_type" json:"image_type,omitempty"`
	ImageURL      string     `bun:"image_url" json:"image_url,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id"`
	AuthorEmail   string     `bun:"author_email,notnull" json:"author_email"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID implements Ownable
func (p *Post) OwnerID() string {
	return p.AuthorID.String()
}

// HasImage reports whether the post carries an uploaded image.
func (p *Post) HasImage() bool {
	return p.ImageKey != "" && p.ImageType != ""
}

// Comment is a short text reply attached to a post.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid" json:"post_id"`
	Text          string     `bun:"text,notnull" json:"text"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id"`
	AuthorEmail   string     `bun:"author_email,notnull" json:"author_email"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// OwnerID implements Ownable
func (c *Comment) OwnerID() string {
	return c.AuthorID.String()
}
