package blog

// Ownable is a resource whose mutations are restricted to its owner.
type Ownable interface {
	OwnerID() string
}

// RequireOwner is the single ownership check used by every mutating command.
// Moderator roles may act on any resource; everyone else must own it.
func RequireOwner(session Session, resource Ownable) error {
	if session == nil {
		return ErrUnauthorized
	}

	if resource == nil {
		return ErrNotResourceOwner
	}

	if IsModerator(session.GetRole()) {
		return nil
	}

	if session.GetUserID() != "" && session.GetUserID() == resource.OwnerID() {
		return nil
	}

	return ErrNotResourceOwner
}
