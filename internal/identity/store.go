package identity

import "context"

// Store persists user accounts. Implementations return
// sentinel.ErrNotFound for missing rows and sentinel.ErrConflict for
// username collisions.
type Store interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int64) error
}
