package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"muniadmin/internal/identity"
	"muniadmin/internal/identity/store/memory"
	"muniadmin/internal/platform/logger"
	"muniadmin/pkg/domain"
	dErrors "muniadmin/pkg/domain-errors"
)

type staticIssuer struct{}

func (staticIssuer) Issue(int64, string, domain.PermissionSet) (string, error) {
	return "test-token", nil
}

func newService() (*identity.Service, *memory.Store) {
	store := memory.NewStore()
	return identity.NewService(store, staticIssuer{}, logger.NewNop()), store
}

func TestRegister_CreatesUserWithDefaults(t *testing.T) {
	svc, _ := newService()

	result, err := svc.Register(context.Background(), identity.RegisterInput{
		Name:     "Maria Rossi",
		Username: "maria.rossi@comune.example.it",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "test-token", result.Token)
	assert.NotZero(t, result.User.ID)
	assert.True(t, result.User.Permissions.Has(domain.PermBasicAccess))
	assert.NotEqual(t, "s3cret-pass", result.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(result.User.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_DerivesNameFromEmailUsername(t *testing.T) {
	svc, _ := newService()

	result, err := svc.Register(context.Background(), identity.RegisterInput{
		Username: "luca.bianchi@comune.example.it",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "Luca Bianchi", result.User.Name)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), identity.RegisterInput{
		Name:     "Maria Rossi",
		Username: "maria",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, identity.RegisterInput{
		Name: "Maria", Username: "maria", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, identity.RegisterInput{
		Name: "Other Maria", Username: "MARIA", Password: "other-pass",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, identity.RegisterInput{
		Name: "Maria", Username: "maria", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(ctx, identity.LoginInput{
			Username: "maria", Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "test-token", result.Token)
		assert.Equal(t, "maria", result.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, identity.LoginInput{
			Username: "maria", Password: "wrong-pass",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, identity.LoginInput{
			Username: "nobody", Password: "whatever-pass",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, identity.RegisterInput{
		Name: "Maria", Username: "maria", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	id := reg.User.ID

	t.Run("grants permissions", func(t *testing.T) {
		perms := domain.NewPermissionSet(domain.PermBasicAccess, domain.PermAdmin)
		updated, err := svc.Update(ctx, id, identity.UpdateUserInput{Permissions: &perms})
		require.NoError(t, err)
		assert.True(t, updated.Permissions.Has(domain.PermAdmin))
	})

	t.Run("rehashes a changed password", func(t *testing.T) {
		newPass := "fresh-pass"
		updated, err := svc.Update(ctx, id, identity.UpdateUserInput{Password: &newPass})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(updated.PasswordHash), []byte(newPass)))

		_, err = svc.Login(ctx, identity.LoginInput{Username: "maria", Password: newPass})
		assert.NoError(t, err)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		blank := "  "
		_, err := svc.Update(ctx, id, identity.UpdateUserInput{Name: &blank})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Someone"
		_, err := svc.Update(ctx, 9999, identity.UpdateUserInput{Name: &name})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, identity.RegisterInput{
		Name: "Maria", Username: "maria", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, reg.User.ID))

	_, err = svc.Get(ctx, reg.User.ID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	err = svc.Delete(ctx, reg.User.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestList_EmptyIsNotNil(t *testing.T) {
	svc, _ := newService()

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}
