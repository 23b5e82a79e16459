package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultResetCodeTTL is how long a password reset code stays valid.
const DefaultResetCodeTTL = 10 * time.Minute

// MaxResetAttempts is how many wrong guesses a pending code survives.
const MaxResetAttempts = 5

var ErrInvalidResetCode = errors.New("invalid or expired reset code")

type resetEntry struct {
	code     string
	expires  time.Time
	failures int
}

// ResetCodeStore keeps one pending password reset code per email.
type ResetCodeStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]resetEntry
}

// NewResetCodeStore creates a store whose codes live for ttl.
func NewResetCodeStore(ttl time.Duration) *ResetCodeStore {
	if ttl <= 0 {
		ttl = DefaultResetCodeTTL
	}
	return &ResetCodeStore{ttl: ttl, entries: make(map[string]resetEntry)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue creates a fresh six-digit code for email, replacing any pending
// one.
func (s *ResetCodeStore) Issue(email string, now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[normalizeEmail(email)] = resetEntry{code: code, expires: now.Add(s.ttl)}
	return code, nil
}

// Verify checks code for email and consumes it on success. Expired
// entries are dropped, and so is a code after MaxResetAttempts wrong
// guesses; a new code must then be issued.
func (s *ResetCodeStore) Verify(email, code string, now time.Time) error {
	key := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return ErrInvalidResetCode
	}
	if !now.Before(entry.expires) {
		delete(s.entries, key)
		return ErrInvalidResetCode
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		entry.failures++
		if entry.failures >= MaxResetAttempts {
			delete(s.entries, key)
		} else {
			s.entries[key] = entry
		}
		return ErrInvalidResetCode
	}
	delete(s.entries, key)
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (s *ResetCodeStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expires) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Pending returns the number of stored codes.
func (s *ResetCodeStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CodeSender delivers reset codes to users.
type CodeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes reset codes to the log instead of mailing them.
type LogCodeSender struct {
	Log logrus.FieldLogger
}

// SendResetCode logs the code for email.
func (s LogCodeSender) SendResetCode(_ context.Context, email, code string) error {
	if s.Log == nil {
		return errors.New("no logger configured")
	}
	s.Log.WithFields(logrus.Fields{"email": email, "code": code}).Info("Password reset code issued")
	return nil
}
