package travel_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

func TestRegister_CreatesUserAndToken(t *testing.T) {
	f := newFixture()
	res, err := f.svc.Register(context.Background(), travel.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha", res.User.Name)
	assert.False(t, res.User.IsAdmin)
	assert.NotEqual(t, "s3cret", res.User.PasswordHash)

	id, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture()
	in := travel.RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "s3cret"}
	_, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = f.svc.Register(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, travel.ErrEmailTaken)
	assert.Len(t, f.store.users, 1)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   travel.RegisterInput
		want string
	}{
		{"missing name", travel.RegisterInput{Email: "a@example.com", Password: "x"}, "name is required"},
		{"bad email", travel.RegisterInput{Name: "A", Email: "not-an-email", Password: "x"}, "email must be a valid email"},
		{"missing password", travel.RegisterInput{Name: "A", Email: "a@example.com"}, "password is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Register(context.Background(), tt.in)
			var te *travel.Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, travel.KindValidation, te.Kind)
			assert.Equal(t, tt.want, te.Message)
			assert.Empty(t, f.store.users)
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture()
	reg, err := f.svc.Register(context.Background(), travel.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "s3cret",
	})
	require.NoError(t, err)

	res, err := f.svc.Login(context.Background(), travel.LoginInput{Email: "asha@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_BadCredentialsAreIndistinguishable(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Register(context.Background(), travel.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "s3cret",
	})
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(context.Background(), travel.LoginInput{Email: "asha@example.com", Password: "nope"})
	_, unknownEmail := f.svc.Login(context.Background(), travel.LoginInput{Email: "who@example.com", Password: "s3cret"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, travel.ErrValidation)
}

func TestUser_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.User(context.Background(), uuid.New())
	assert.ErrorIs(t, err, travel.ErrNotFound)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Register(context.Background(), travel.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: strings.Repeat("p", 80),
	})
	var te *travel.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, travel.KindValidation, te.Kind)
	assert.Equal(t, "password must be at most 72 bytes", te.Message)
	assert.Empty(t, f.store.users)
}
