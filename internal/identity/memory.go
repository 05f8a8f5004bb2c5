package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type account struct {
	user      User
	hash      []byte
	confirmed bool
	code      string
}

// MemoryProvider keeps accounts and sessions in process memory. Confirmation
// codes are handed to CodeSender instead of being emailed.
type MemoryProvider struct {
	// CodeSender receives every confirmation code issued.
	CodeSender func(username, code string)
	TTL        time.Duration

	now     func() time.Time
	compare func(hash, password []byte) error

	mu       sync.Mutex
	accounts map[string]*account
	sessions map[string]Session
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		CodeSender: func(username, code string) {
			slog.Debug("confirmation code issued", "component", "identity", "username", username, "code", code)
		},
		TTL:      12 * time.Hour,
		now:      time.Now,
		compare:  bcrypt.CompareHashAndPassword,
		accounts: make(map[string]*account),
		sessions: make(map[string]Session),
	}
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (p *MemoryProvider) CurrentSession(_ context.Context, token string) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[token]
	if !ok || token == "" {
		return Session{}, ErrNotAuthenticated
	}
	if !p.now().Before(s.ExpiresAt) {
		delete(p.sessions, token)
		return Session{}, ErrNotAuthenticated
	}
	return s, nil
}

func (p *MemoryProvider) SignIn(_ context.Context, username, password string) (Session, error) {
	p.mu.Lock()
	acct, ok := p.accounts[normalize(username)]
	var (
		hash      []byte
		user      User
		confirmed bool
	)
	if ok {
		hash, user, confirmed = acct.hash, acct.user, acct.confirmed
	}
	p.mu.Unlock()

	// The hash comparison is slow; it must not hold up CurrentSession.
	if !ok || p.compare(hash, []byte(password)) != nil {
		return Session{}, ErrBadCredentials
	}
	if !confirmed {
		return Session{}, ErrNotConfirmed
	}

	s := Session{Token: uuid.NewString(), User: user, ExpiresAt: p.now().Add(p.TTL)}
	p.mu.Lock()
	p.sessions[s.Token] = s
	p.mu.Unlock()
	return s, nil
}

func (p *MemoryProvider) SignUp(_ context.Context, in SignUpInput) (SignUpResult, error) {
	if err := in.Validate(); err != nil {
		return SignUpResult{}, err
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != strings.TrimSpace(in.Email) {
		return SignUpResult{}, ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return SignUpResult{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("hash password: %w", err)
	}
	code, err := newCode()
	if err != nil {
		return SignUpResult{}, err
	}

	username := normalize(in.Email)
	p.mu.Lock()
	if _, exists := p.accounts[username]; exists {
		p.mu.Unlock()
		return SignUpResult{}, ErrUserExists
	}
	p.accounts[username] = &account{
		user: User{
			Username:   username,
			Email:      strings.TrimSpace(in.Email),
			GivenName:  in.FirstName,
			FamilyName: in.LastName,
		},
		hash: hash,
		code: code,
	}
	send := p.CodeSender
	p.mu.Unlock()

	if send != nil {
		send(username, code)
	}
	return SignUpResult{NextStep: StepConfirmSignUp}, nil
}

func (p *MemoryProvider) ConfirmSignUp(_ context.Context, username, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	acct, ok := p.accounts[normalize(username)]
	switch {
	case !ok:
		return ErrUserNotFound
	case acct.confirmed:
		return ErrAlreadyConfirmed
	case strings.TrimSpace(code) != acct.code:
		return ErrCodeMismatch
	}
	acct.confirmed = true
	acct.code = ""
	return nil
}

func (p *MemoryProvider) ResendConfirmationCode(_ context.Context, username string) error {
	code, err := newCode()
	if err != nil {
		return err
	}
	p.mu.Lock()
	acct, ok := p.accounts[normalize(username)]
	switch {
	case !ok:
		p.mu.Unlock()
		return ErrUserNotFound
	case acct.confirmed:
		p.mu.Unlock()
		return ErrAlreadyConfirmed
	}
	acct.code = code
	send := p.CodeSender
	p.mu.Unlock()

	if send != nil {
		send(acct.user.Username, code)
	}
	return nil
}

// SignOut ends the session. Unknown tokens are ignored.
func (p *MemoryProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	delete(p.sessions, token)
	p.mu.Unlock()
	return nil
}

func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
