package services

import (
	"context"
	"testing"
	"time"

	"github.com/machinery-hub/catalog-api/internal/logging"
	"github.com/machinery-hub/catalog-api/internal/models"
	"github.com/machinery-hub/catalog-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService() (*UserService, *AuthService, *testutil.Users) {
	users := testutil.NewUsers()
	auth := NewAuthService(users, NewTokenCodec([]byte("secret"), time.Hour), testHasher, logging.Discard())
	return NewUserService(users, auth, testHasher), auth, users
}

func TestUserService_RegisterThenLogin(t *testing.T) {
	svc, auth, _ := newUserService()
	ctx := context.Background()

	token, user, err := svc.Register(ctx, models.UserFields{
		Username: ptr("a"),
		Email:    ptr("a@x.com"),
		Password: ptr("12345678"),
		Admin:    ptr(true),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.Admin)
	assert.NotEqual(t, "12345678", user.Password)

	resolved, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	loginToken, err := auth.Login(ctx, models.Credentials{Email: "a@x.com", Password: "12345678"})
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestUserService_RegisterConflicts(t *testing.T) {
	svc, _, users := newUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("a@x.com"), Password: ptr("pw")})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("b@x.com"), Password: ptr("pw")})
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "Username is already taken.", err.Error())

	_, _, err = svc.Register(ctx, models.UserFields{Username: ptr("b"), Email: ptr("A@X.com"), Password: ptr("pw")})
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, "Email is already taken.", err.Error())

	assert.Equal(t, 1, users.Len())
}

func TestUserService_UpdateHashesPassword(t *testing.T) {
	svc, auth, _ := newUserService()
	ctx := context.Background()

	_, user, err := svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("a@x.com"), Password: ptr("old-password")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID.Hex(), models.UserFields{Password: ptr("new-password")})
	require.NoError(t, err)
	assert.NotEqual(t, "new-password", updated.Password)
	assert.Equal(t, "a", updated.Username)

	_, err = auth.Login(ctx, models.Credentials{Email: "a@x.com", Password: "old-password"})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = auth.Login(ctx, models.Credentials{Email: "a@x.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestUserService_UpdateUniqueness(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, a, err := svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("a@x.com"), Password: ptr("pw")})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, models.UserFields{Username: ptr("b"), Email: ptr("b@x.com"), Password: ptr("pw")})
	require.NoError(t, err)

	// re-sending its own values is not a conflict
	same, err := svc.Update(ctx, a.ID.Hex(), models.UserFields{Username: ptr("a"), Email: ptr("a@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "a", same.Username)

	_, err = svc.Update(ctx, a.ID.Hex(), models.UserFields{Email: ptr("b@x.com")})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = svc.Update(ctx, a.ID.Hex(), models.UserFields{Email: ptr("broken")})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_DeleteThenGet(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, user, err := svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("a@x.com"), Password: ptr("pw")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID.Hex()))
	_, err = svc.Get(ctx, user.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_SeedAdmin(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	admin, err := svc.SeedAdmin(ctx, "root", "root@example.com", "12345678")
	require.NoError(t, err)
	assert.True(t, admin.Admin)
	assert.Equal(t, "root", admin.FirstName)

	_, err = svc.SeedAdmin(ctx, "root", "root@example.com", "12345678")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserService_RegisterRejectsBracketedDuplicate(t *testing.T) {
	svc, _, users := newUserService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("a@x.com"), Password: ptr("12345678")})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, models.UserFields{Username: ptr("b"), Email: ptr("<a@x.com>"), Password: ptr("12345678")})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 1, users.Len())
}

// blindUsers misses every lookup, so only the unique keys of the store
// catch a duplicate, as with two concurrent registrations.
type blindUsers struct {
	*testutil.Users
}

func (blindUsers) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func (blindUsers) FindByUsername(context.Context, string) (*models.User, error) {
	return nil, models.ErrNotFound
}

func TestUserService_UniqueIndexConflict(t *testing.T) {
	users := blindUsers{testutil.NewUsers()}
	auth := NewAuthService(users, NewTokenCodec([]byte("secret"), time.Hour), testHasher, logging.Discard())
	svc := NewUserService(users, auth, testHasher)
	ctx := context.Background()

	_, first, err := svc.Register(ctx, models.UserFields{Username: ptr("a"), Email: ptr("a@x.com"), Password: ptr("12345678")})
	require.NoError(t, err)
	_, second, err := svc.Register(ctx, models.UserFields{Username: ptr("b"), Email: ptr("b@x.com"), Password: ptr("12345678")})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, models.UserFields{Username: ptr("c"), Email: ptr("a@x.com"), Password: ptr("12345678")})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.EqualError(t, err, "Username or email is already taken.")

	_, err = svc.Update(ctx, second.ID.Hex(), models.UserFields{Username: ptr(first.Username)})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.EqualError(t, err, "Username or email is already taken.")
}
