package identity

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestProvider() (*MemoryProvider, map[string]string) {
	codes := make(map[string]string)
	p := NewMemoryProvider()
	p.CodeSender = func(username, code string) { codes[username] = code }
	return p, codes
}

func signUp() SignUpInput {
	return SignUpInput{
		Email:           "Ana@Example.com",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
		FirstName:       "Ana",
		LastName:        "Lima",
	}
}

func TestMemoryProvider_SignUpConfirmSignIn(t *testing.T) {
	ctx := context.Background()
	p, codes := newTestProvider()

	res, err := p.SignUp(ctx, signUp())
	require.NoError(t, err)
	assert.Equal(t, StepConfirmSignUp, res.NextStep)
	require.Len(t, codes["ana@example.com"], 6)

	_, err = p.SignIn(ctx, "ana@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrNotConfirmed)

	assert.ErrorIs(t, p.ConfirmSignUp(ctx, "ana@example.com", "nope"), ErrCodeMismatch)
	require.NoError(t, p.ConfirmSignUp(ctx, "ANA@example.com", codes["ana@example.com"]))
	assert.ErrorIs(t, p.ConfirmSignUp(ctx, "ana@example.com", codes["ana@example.com"]), ErrAlreadyConfirmed)

	s, err := p.SignIn(ctx, "ana@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "Ana", s.User.GivenName)

	cur, err := p.CurrentSession(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s, cur)

	require.NoError(t, p.SignOut(ctx, s.Token))
	_, err = p.CurrentSession(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.NoError(t, p.SignOut(ctx, s.Token))
}

func TestMemoryProvider_SignUpErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		input func(*SignUpInput)
		want  *Error
	}{
		{"password mismatch", func(in *SignUpInput) { in.ConfirmPassword = "other" }, ErrPasswordMismatch},
		{"short password", func(in *SignUpInput) { in.Password, in.ConfirmPassword = "short", "short" }, ErrWeakPassword},
		{"bad email", func(in *SignUpInput) { in.Email = "not-an-email" }, ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProvider()
			in := signUp()
			tt.input(&in)
			_, err := p.SignUp(ctx, in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want.Message, err.Error())
		})
	}

	t.Run("existing user", func(t *testing.T) {
		p, _ := newTestProvider()
		_, err := p.SignUp(ctx, signUp())
		require.NoError(t, err)
		_, err = p.SignUp(ctx, signUp())
		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestSignUpInput_Validate(t *testing.T) {
	in := signUp()
	assert.NoError(t, in.Validate())
	in.ConfirmPassword = "x"
	err := in.Validate()
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match.", err.Error())
}

func TestMemoryProvider_SignInErrors(t *testing.T) {
	ctx := context.Background()
	p, codes := newTestProvider()
	_, err := p.SignUp(ctx, signUp())
	require.NoError(t, err)
	require.NoError(t, p.ConfirmSignUp(ctx, "ana@example.com", codes["ana@example.com"]))

	_, err = p.SignIn(ctx, "ana@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = p.SignIn(ctx, "bob@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = p.CurrentSession(ctx, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestMemoryProvider_ResendCode(t *testing.T) {
	ctx := context.Background()
	p, codes := newTestProvider()

	assert.ErrorIs(t, p.ResendConfirmationCode(ctx, "ghost@example.com"), ErrUserNotFound)

	_, err := p.SignUp(ctx, signUp())
	require.NoError(t, err)
	first := codes["ana@example.com"]

	require.NoError(t, p.ResendConfirmationCode(ctx, "ana@example.com"))
	second := codes["ana@example.com"]
	require.Len(t, second, 6)

	if first != second {
		assert.ErrorIs(t, p.ConfirmSignUp(ctx, "ana@example.com", first), ErrCodeMismatch)
	}
	require.NoError(t, p.ConfirmSignUp(ctx, "ana@example.com", second))
	assert.ErrorIs(t, p.ResendConfirmationCode(ctx, "ana@example.com"), ErrAlreadyConfirmed)
}

func TestMemoryProvider_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	p, codes := newTestProvider()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	p.TTL = time.Hour

	_, err := p.SignUp(ctx, signUp())
	require.NoError(t, err)
	require.NoError(t, p.ConfirmSignUp(ctx, "ana@example.com", codes["ana@example.com"]))
	s, err := p.SignIn(ctx, "ana@example.com", "correct horse")
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = p.CurrentSession(ctx, s.Token)
	assert.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = p.CurrentSession(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestMemoryProvider_SignInDoesNotBlockSessionLookups(t *testing.T) {
	ctx := context.Background()
	p, codes := newTestProvider()

	_, err := p.SignUp(ctx, signUp())
	require.NoError(t, err)
	require.NoError(t, p.ConfirmSignUp(ctx, "ana@example.com", codes["ana@example.com"]))
	active, err := p.SignIn(ctx, "ana@example.com", "correct horse")
	require.NoError(t, err)

	comparing := make(chan struct{})
	release := make(chan struct{})
	p.compare = func(hash, password []byte) error {
		close(comparing)
		<-release
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.SignIn(ctx, "ana@example.com", "correct horse")
		done <- err
	}()
	<-comparing

	lookup := make(chan error, 1)
	go func() {
		_, err := p.CurrentSession(ctx, active.Token)
		lookup <- err
	}()
	select {
	case err := <-lookup:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("CurrentSession blocked while a password was being checked")
	}

	close(release)
	assert.NoError(t, <-done)
}

func TestNewMemoryProvider_CodesLoggedAtDebugOnly(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	NewMemoryProvider().CodeSender("ana@example.com", "123456")
	assert.Empty(t, buf.String())

	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	NewMemoryProvider().CodeSender("ana@example.com", "123456")
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}
