package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"muniadmin/pkg/domain"
	dErrors "muniadmin/pkg/domain-errors"
	"muniadmin/pkg/email"
	"muniadmin/pkg/platform/sentinel"
)

const minPasswordLength = 6

// TokenIssuer signs a session token for an authenticated principal.
type TokenIssuer interface {
	Issue(userID int64, username string, permissions domain.PermissionSet) (string, error)
}

// Service owns account lifecycle and credential checks. Passwords are
// stored as bcrypt hashes; the original system kept them in plaintext,
// which is the one behavior deliberately not carried over.
type Service struct {
	store  Store
	tokens TokenIssuer
	logger *slog.Logger
}

func NewService(store Store, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account with the default permission set and signs the
// caller in immediately.
func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)

	if in.Username == "" {
		return AuthResult{}, dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	if in.Name == "" {
		// Usernames are official email addresses; a missing display name
		// can be guessed from the local part.
		in.Name = email.DeriveDisplayName(in.Username)
	}
	if in.Name == "" {
		return AuthResult{}, dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if len(in.Password) < minPasswordLength {
		return AuthResult{}, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, dErrors.Wrap(dErrors.CodeInternal, "hash password", err)
	}

	user, err := s.store.Create(ctx, User{
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: string(hash),
		Permissions:  domain.NewPermissionSet(domain.PermBasicAccess),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return AuthResult{}, dErrors.New(dErrors.CodeConflict, "username already taken")
		}
		return AuthResult{}, dErrors.Wrap(dErrors.CodeInternal, "create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return s.issueFor(user)
}

// Login verifies credentials and issues a session token. A missing user and
// a wrong password produce the same error.
func (s *Service) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return AuthResult{}, dErrors.New(dErrors.CodeInvalidInput, "username and password are required")
	}

	user, err := s.store.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return AuthResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return AuthResult{}, dErrors.Wrap(dErrors.CodeInternal, "load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return AuthResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return s.issueFor(user)
}

func (s *Service) issueFor(user User) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Username, user.Permissions)
	if err != nil {
		return AuthResult{}, dErrors.Wrap(dErrors.CodeInternal, "issue token", err)
	}
	return AuthResult{Token: token, User: user}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return User{}, dErrors.Wrap(dErrors.CodeInternal, "load user", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list users", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// Update applies a partial update. Permission changes take effect for new
// tokens only; outstanding tokens keep their issuance-time snapshot.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUserInput) (User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if user.Name == "" || user.Username == "" {
		return User{}, dErrors.New(dErrors.CodeInvalidInput, "name and username are required")
	}
	if in.Permissions != nil {
		if in.Permissions.Err() != nil {
			return User{}, dErrors.New(dErrors.CodeInvalidInput, "malformed permissions")
		}
		user.Permissions = *in.Permissions
	}
	if in.DepartmentIDs != nil {
		user.DepartmentIDs = *in.DepartmentIDs
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return User{}, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, dErrors.Wrap(dErrors.CodeInternal, "hash password", err)
		}
		user.PasswordHash = string(hash)
	}

	updated, err := s.store.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		case errors.Is(err, sentinel.ErrConflict):
			return User{}, dErrors.New(dErrors.CodeConflict, "username already taken")
		default:
			return User{}, dErrors.Wrap(dErrors.CodeInternal, "update user", err)
		}
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "delete user", err)
	}
	return nil
}
