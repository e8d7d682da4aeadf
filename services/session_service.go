package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pairchat/auth"
	"pairchat/contract"
	"pairchat/errors"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateUnauthenticated     SessionState = "Unauthenticated"
	StatePendingVerification SessionState = "PendingVerification"
	StateAuthenticated       SessionState = "Authenticated"
)

// IdentityListener observes the live session value. It fires on every
// transition into or out of Authenticated, and once at subscription time
// with the current value.
type IdentityListener func(identity string, authenticated bool)

type ISessionService interface {
	RequestVerification(ctx context.Context, phoneNumber string) (contract.IVerificationHandle, error)
	ConfirmVerification(ctx context.Context, handle contract.IVerificationHandle, code string) (string, error)
	CurrentIdentity() (string, bool)
	SessionToken() (string, bool)
	SubscribeIdentity(listener IdentityListener) func()
	SignOut()
	State() SessionState
}

// SessionService tracks the one signed-in identity of the process.
// It is passed by reference to whoever needs it; there is no package-level
// session value.
type SessionService struct {
	mu            sync.Mutex
	log           *slog.Logger
	provider      contract.IVerificationProvider
	countryPrefix string
	tokenDuration time.Duration

	state       SessionState
	phoneNumber string
	identity    string
	token       string
	listeners   map[string]IdentityListener
}

func NewSessionService(log *slog.Logger, provider contract.IVerificationProvider,
	countryPrefix string, tokenDuration time.Duration) *SessionService {
	return &SessionService{
		log:           log,
		provider:      provider,
		countryPrefix: countryPrefix,
		tokenDuration: tokenDuration,
		state:         StateUnauthenticated,
		listeners:     make(map[string]IdentityListener),
	}
}

// RequestVerification starts the out-of-band verification flow for a
// 10-digit national number. Malformed numbers are rejected locally and the
// provider is never contacted.
func (s *SessionService) RequestVerification(ctx context.Context, phoneNumber string) (contract.IVerificationHandle, error) {
	if err := auth.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}

	e164Number := s.countryPrefix + phoneNumber
	handle, err := s.provider.BeginVerification(ctx, e164Number)
	if err != nil {
		return nil, fmt.Errorf("verification request: %w", err)
	}

	s.mu.Lock()
	s.state = StatePendingVerification
	s.phoneNumber = e164Number
	s.mu.Unlock()

	s.log.Debug("Verification pending", "number", e164Number)
	return handle, nil
}

// ConfirmVerification submits the code against the handle. Malformed codes
// are rejected before submission. A provider rejection leaves the session
// in PendingVerification so the caller can retry on the same handle.
func (s *SessionService) ConfirmVerification(ctx context.Context, handle contract.IVerificationHandle, code string) (string, error) {
	if err := auth.ValidateCode(code); err != nil {
		return "", err
	}

	identity, err := handle.Confirm(ctx, code)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	token, err := auth.GenerateToken(identity, s.phoneNumber, s.tokenDuration)
	if err != nil {
		s.mu.Unlock()
		return "", errors.ErrTokenGeneration
	}
	s.state = StateAuthenticated
	s.identity = identity
	s.token = token
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info("Signed in", "identity", identity)
	for _, l := range listeners {
		l(identity, true)
	}
	return identity, nil
}

// CurrentIdentity reflects the live session state.
func (s *SessionService) CurrentIdentity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.state == StateAuthenticated
}

// SessionToken returns the JWT minted at sign-in.
func (s *SessionService) SessionToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.state == StateAuthenticated
}

func (s *SessionService) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubscribeIdentity registers a listener and immediately feeds it the
// current value. The returned cancel is idempotent.
func (s *SessionService) SubscribeIdentity(listener IdentityListener) func() {
	key := uuid.NewString()

	s.mu.Lock()
	s.listeners[key] = listener
	identity, authenticated := s.identity, s.state == StateAuthenticated
	s.mu.Unlock()

	listener(identity, authenticated)

	return func() {
		s.mu.Lock()
		delete(s.listeners, key)
		s.mu.Unlock()
	}
}

// SignOut drops the session. Idempotent: signing out while already
// unauthenticated notifies nobody.
func (s *SessionService) SignOut() {
	s.mu.Lock()
	if s.state == StateUnauthenticated {
		s.mu.Unlock()
		return
	}
	s.state = StateUnauthenticated
	s.identity = ""
	s.token = ""
	s.phoneNumber = ""
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info("Signed out")
	for _, l := range listeners {
		l("", false)
	}
}

// snapshotListeners copies the listener set so notifications run unlocked.
func (s *SessionService) snapshotListeners() []IdentityListener {
	listeners := make([]IdentityListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return listeners
}
