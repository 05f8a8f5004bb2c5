// Package identity is the authentication boundary: sign-in, sign-up with
// emailed confirmation codes, and the current session.
package identity

import (
	"context"
	"time"
)

// User is the signed-in account.
type User struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}

// Session is an authenticated session. It is passed explicitly to whatever
// needs the caller's identity.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SignUpInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

// Validate runs the checks done before the provider is called.
func (in SignUpInput) Validate() error {
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// SignUpStep is what the caller has to do next after signing up.
type SignUpStep string

const (
	StepConfirmSignUp SignUpStep = "CONFIRM_SIGN_UP"
	StepDone          SignUpStep = "DONE"
)

type SignUpResult struct {
	NextStep SignUpStep `json:"nextStep"`
}

// Provider is an identity service. Errors it returns are *Error values
// whose Message is meant to be shown to the user as is.
type Provider interface {
	CurrentSession(ctx context.Context, token string) (Session, error)
	SignIn(ctx context.Context, username, password string) (Session, error)
	SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
	ResendConfirmationCode(ctx context.Context, username string) error
	SignOut(ctx context.Context, token string) error
}

// Error is a provider failure with a user-facing message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrPasswordMismatch = &Error{Code: "PasswordMismatch", Message: "Passwords do not match."}
	ErrNotAuthenticated = &Error{Code: "UserUnAuthenticatedException", Message: "User needs to be authenticated to call this API."}
	ErrBadCredentials   = &Error{Code: "NotAuthorizedException", Message: "Incorrect username or password."}
	ErrNotConfirmed     = &Error{Code: "UserNotConfirmedException", Message: "User is not confirmed."}
	ErrUserExists       = &Error{Code: "UsernameExistsException", Message: "An account with the given email already exists."}
	ErrUserNotFound     = &Error{Code: "UserNotFoundException", Message: "Username/client id combination not found."}
	ErrCodeMismatch     = &Error{Code: "CodeMismatchException", Message: "Invalid verification code provided, please try again."}
	ErrAlreadyConfirmed = &Error{Code: "InvalidParameterException", Message: "User is already confirmed."}
	ErrWeakPassword     = &Error{Code: "InvalidPasswordException", Message: "Password did not conform with policy: Password not long enough"}
	ErrInvalidEmail     = &Error{Code: "InvalidParameterException", Message: "Invalid email address format."}
)
