package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pairchat/contract"
	"pairchat/errors"

	"github.com/google/uuid"
)

// CodeDelivery is the out-of-band channel the generated code leaves through
// (SMS in the managed backend, stdout in the local client).
type CodeDelivery func(e164Number, code string)

// LocalProvider is an in-process stand-in for the managed phone-auth backend.
// A number seen for the first time is assigned a fresh identity; signing in
// again with the same number resolves the same identity, the way the managed
// provider keys accounts by phone number.
type LocalProvider struct {
	mu          sync.Mutex
	log         *slog.Logger
	identities  map[string]string // e164 number -> assigned identity
	deliver     CodeDelivery
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewLocalProvider(log *slog.Logger, ttl time.Duration, maxAttempts int, deliver CodeDelivery) *LocalProvider {
	return &LocalProvider{
		log:         log,
		identities:  make(map[string]string),
		deliver:     deliver,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Register pins a fixed identity to a number. Mostly useful in tests and
// seeded local runs; unregistered numbers get a generated identity instead.
func (p *LocalProvider) Register(e164Number, identity string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities[e164Number] = identity
}

// BeginVerification generates a one-time code, delivers it out-of-band and
// returns the handle the caller later confirms against. Only the Argon2id
// hash of the code is retained.
func (p *LocalProvider) BeginVerification(ctx context.Context, e164Number string) (contract.IVerificationHandle, error) {
	code, err := GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("code generation: %w", err)
	}

	hash, err := HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("code hashing: %w", err)
	}

	p.mu.Lock()
	identity, ok := p.identities[e164Number]
	if !ok {
		identity = uuid.NewString()
		p.identities[e164Number] = identity
	}
	p.mu.Unlock()

	handle := &localHandle{
		provider:     p,
		identity:     identity,
		codeHash:     hash,
		expiresAt:    p.now().Add(p.ttl),
		attemptsLeft: p.maxAttempts,
	}

	p.log.Debug("Verification started", "number", e164Number)
	if p.deliver != nil {
		p.deliver(e164Number, code)
	}
	return handle, nil
}

// localHandle is one in-flight verification. It stays usable after a failed
// confirmation so the caller can retry with a new code, until the attempt
// budget or the TTL runs out.
type localHandle struct {
	mu           sync.Mutex
	provider     *LocalProvider
	identity     string
	codeHash     string
	expiresAt    time.Time
	attemptsLeft int
}

func (h *localHandle) Confirm(ctx context.Context, code string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.provider.now().After(h.expiresAt) {
		return "", errors.ErrVerificationExpired
	}
	if h.attemptsLeft <= 0 {
		return "", errors.ErrTooManyAttempts
	}

	match, err := CompareCode(code, h.codeHash)
	if err != nil {
		return "", err
	}
	if !match {
		h.attemptsLeft--
		return "", errors.ErrCodeMismatch
	}
	return h.identity, nil
}
