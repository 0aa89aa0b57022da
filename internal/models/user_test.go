package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFields_ValidateRegister(t *testing.T) {
	err := UserFields{}.ValidateRegister()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)

	err = UserFields{
		Username: ptr("a"),
		Email:    ptr("not-an-email"),
		Password: ptr("12345678"),
	}.ValidateRegister()
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "email", verrs[0].Param)

	assert.NoError(t, UserFields{
		Username: ptr("a"),
		Email:    ptr("a@x.com"),
		Password: ptr("12345678"),
	}.ValidateRegister())
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{" a@x.com ", true},
		{"<a@x.com>", false},
		{"Ann <a@x.com>", false},
		{"a@x.com, b@x.com", false},
		{"a", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, validEmail(tt.email))

			err := UserFields{Username: ptr("a"), Email: ptr(tt.email), Password: ptr("12345678")}.ValidateRegister()
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestUserFields_NewUser(t *testing.T) {
	now := time.Now().UTC()
	u := UserFields{
		Username: ptr(" a "),
		Email:    ptr(" A@X.com"),
		Password: ptr("12345678"),
		Admin:    ptr(true),
	}.NewUser("hash", now)

	assert.Equal(t, "a", u.Username)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "hash", u.Password)
	assert.True(t, u.Admin)
	assert.False(t, u.Private)
}

func TestUserFields_ApplyIsSparse(t *testing.T) {
	u := User{
		Username:  "a",
		Email:     "a@x.com",
		Password:  "hash",
		FirstName: "Ann",
		LastName:  "Lee",
		Admin:     true,
	}
	before := u

	UserFields{FirstName: ptr("Anna")}.Apply(&u)
	want := before
	want.FirstName = "Anna"
	assert.Equal(t, want, u)

	// false booleans are treated as empty
	UserFields{Admin: ptr(false), Private: ptr(false)}.Apply(&u)
	assert.True(t, u.Admin)
	assert.False(t, u.Private)

	UserFields{Private: ptr(true)}.Apply(&u)
	assert.True(t, u.Private)
}

func TestUserFields_ValidatePatch(t *testing.T) {
	assert.NoError(t, UserFields{}.ValidatePatch())
	assert.NoError(t, UserFields{Email: ptr("")}.ValidatePatch())
	assert.Error(t, UserFields{Email: ptr("nope")}.ValidatePatch())
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "a@x.com", Password: "x"}.Validate())

	var verrs ValidationErrors
	require.True(t, errors.As(Credentials{}.Validate(), &verrs))
	assert.Len(t, verrs, 2)
}

func TestNameFields(t *testing.T) {
	assert.Error(t, NameFields{}.ValidateCreate())
	assert.Error(t, NameFields{Name: ptr(" ")}.ValidateCreate())
	assert.NoError(t, NameFields{Name: ptr("north")}.ValidateCreate())

	assert.Equal(t, "north", NameFields{}.Apply("north"))
	assert.Equal(t, "north", NameFields{Name: ptr("")}.Apply("north"))
	assert.Equal(t, "south", NameFields{Name: ptr(" south ")}.Apply("north"))
}

func TestError_Kinds(t *testing.T) {
	err := NewError(ErrNotFound, "Machine was not found!")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Machine was not found!", err.Error())

	err = InvalidID("id")
	assert.True(t, errors.Is(err, ErrValidation))
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "params", verrs[0].Location)

	var empty ValidationErrors
	assert.NoError(t, empty.Err())
}
