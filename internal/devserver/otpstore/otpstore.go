package otpstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

var (
	// ErrCodeInvalid covers a wrong or already-consumed code.
	ErrCodeInvalid = errors.New("otp code invalid")
	// ErrCodeExpired covers a code past its window.
	ErrCodeExpired = errors.New("otp code expired")
)

// OTPStore holds ephemeral challenges. Codes live bcrypt-hashed for their
// 300s window and are consumed by exactly one verification.
type OTPStore interface {
	// Put issues a challenge, replacing any outstanding one for the subject.
	Put(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error
	// Verify checks a code without consuming it.
	Verify(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error
	// Consume checks a code and burns the challenge.
	Consume(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error
}

func challengeKey(subject string, purpose models.OTPPurpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

type memoryChallenge struct {
	codeHash  []byte
	expiresAt time.Time
}

// MemoryStore is the default challenge backend; Redis takes over when
// REDIS_URL is configured.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]memoryChallenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]memoryChallenge)}
}

func (s *MemoryStore) Put(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challengeKey(subject, purpose)] = memoryChallenge{
		codeHash:  hash,
		expiresAt: time.Now().Add(models.OTPExpiry),
	}
	return nil
}

func (s *MemoryStore) Verify(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check(subject, purpose, code)
}

func (s *MemoryStore) Consume(ctx context.Context, subject string, purpose models.OTPPurpose, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(subject, purpose, code); err != nil {
		return err
	}
	delete(s.challenges, challengeKey(subject, purpose))
	return nil
}

func (s *MemoryStore) check(subject string, purpose models.OTPPurpose, code string) error {
	challenge, ok := s.challenges[challengeKey(subject, purpose)]
	if !ok {
		return ErrCodeInvalid
	}
	if time.Now().After(challenge.expiresAt) {
		delete(s.challenges, challengeKey(subject, purpose))
		return ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword(challenge.codeHash, []byte(code)) != nil {
		return ErrCodeInvalid
	}
	return nil
}
