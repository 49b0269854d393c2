package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
)

const (
	codeLifetime   = 5 * time.Minute
	maxAttempts    = 5
	maxResends     = 3
	resendCooldown = 30 * time.Second
	// verifiedLifetime bounds how long after a successful verification the
	// signing call may follow.
	verifiedLifetime = 10 * time.Minute
)

// Sender dispatches the code to the user. The email service satisfies it.
type Sender interface {
	SendOTPEmail(ctx context.Context, email, name, code, orderNumber string) error
}

type Service struct {
	store  Store
	sender Sender
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, sender Sender, opts ...Option) *Service {
	s := &Service{store: store, sender: sender, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SendRequest struct {
	UserID      int32
	ContractID  int32
	Email       string
	Name        string
	Role        domain.SignerRole
	OrderNumber string
}

type SendResult struct {
	MaskedEmail      string `json:"masked_email"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
	ResendsRemaining int    `json:"resends_remaining"`
}

// Send issues (or reissues) a challenge and dispatches the code by email.
// A dispatch failure rolls back the stored challenge so no unreachable
// code lingers.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	key := challengeKey(req.UserID, req.ContractID)
	now := s.now()

	resends := 0
	existing, err := s.store.GetChallenge(ctx, key)
	if err != nil {
		return nil, apperrors.Internal("otp store lookup failed", err)
	}
	if existing != nil && now.Before(existing.ExpiresAt) {
		if wait := existing.LastSentAt.Add(resendCooldown).Sub(now); wait > 0 {
			return nil, apperrors.BadRequest("please wait %d seconds before requesting another code", int(wait.Seconds())+1)
		}
		resends = existing.Resends + 1
		if resends > maxResends {
			_ = s.store.DeleteChallenge(ctx, key)
			return nil, apperrors.BadRequest("resend limit reached, request a new code later")
		}
	}

	code, err := generateCode()
	if err != nil {
		return nil, apperrors.Internal("failed to generate code", err)
	}

	ch := &Challenge{
		UserID:      req.UserID,
		ContractID:  req.ContractID,
		Code:        code,
		Email:       req.Email,
		Name:        req.Name,
		Role:        req.Role,
		OrderNumber: req.OrderNumber,
		ExpiresAt:   now.Add(codeLifetime),
		Resends:     resends,
		LastSentAt:  now,
	}
	if err := s.store.PutChallenge(ctx, key, ch, codeLifetime); err != nil {
		return nil, apperrors.Internal("otp store write failed", err)
	}

	if err := s.sender.SendOTPEmail(ctx, req.Email, req.Name, code, req.OrderNumber); err != nil {
		// No dangling challenge for a code the user never received.
		_ = s.store.DeleteChallenge(ctx, key)
		return nil, apperrors.Internal("failed to dispatch verification code", err)
	}

	return &SendResult{
		MaskedEmail:      MaskEmail(req.Email),
		ExpiresInSeconds: int(codeLifetime.Seconds()),
		ResendsRemaining: maxResends - resends,
	}, nil
}

// Verify checks a submitted code. On success the challenge is deleted and
// a verified marker is recorded for the signing call to consume.
func (s *Service) Verify(ctx context.Context, userID, contractID int32, code string) error {
	key := challengeKey(userID, contractID)
	now := s.now()

	ch, err := s.store.GetChallenge(ctx, key)
	if err != nil {
		return apperrors.Internal("otp store lookup failed", err)
	}
	if ch == nil {
		return apperrors.BadRequest("no verification code outstanding, request one first")
	}
	if now.After(ch.ExpiresAt) {
		_ = s.store.DeleteChallenge(ctx, key)
		return apperrors.BadRequest("verification code expired, request a new one")
	}
	if ch.Attempts >= maxAttempts {
		_ = s.store.DeleteChallenge(ctx, key)
		return apperrors.BadRequest("too many failed attempts, request a new code")
	}
	if ch.Code != code {
		ch.Attempts++
		if ch.Attempts >= maxAttempts {
			_ = s.store.DeleteChallenge(ctx, key)
			return apperrors.BadRequest("too many failed attempts, request a new code")
		}
		if err := s.store.PutChallenge(ctx, key, ch, ch.ExpiresAt.Sub(now)); err != nil {
			return apperrors.Internal("otp store write failed", err)
		}
		return apperrors.BadRequest("incorrect code, %d attempts remaining", maxAttempts-ch.Attempts)
	}

	if err := s.store.DeleteChallenge(ctx, key); err != nil {
		return apperrors.Internal("otp store delete failed", err)
	}
	if err := s.store.PutVerified(ctx, verifiedKey(userID, contractID), verifiedLifetime); err != nil {
		return apperrors.Internal("otp store write failed", err)
	}
	return nil
}

// ConsumeVerified reports whether the user passed verification for this
// contract since their last signing attempt, clearing the marker so it
// cannot be reused.
func (s *Service) ConsumeVerified(ctx context.Context, userID, contractID int32) (bool, error) {
	ok, err := s.store.TakeVerified(ctx, verifiedKey(userID, contractID))
	if err != nil {
		return false, apperrors.Internal("otp store lookup failed", err)
	}
	return ok, nil
}

// SweepInterval is how often the background sweeper prunes the store.
const SweepInterval = 5 * time.Minute

// Sweep removes expired challenges. Challenges the user never retries are
// only deleted here; the Redis store expires keys itself and reports zero.
func (s *Service) Sweep(ctx context.Context) {
	removed, err := s.store.DeleteExpired(ctx)
	if err != nil {
		logger.Error("OTP sweep failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Debug("OTP sweep removed expired challenges", "count", removed)
	}
}

// RunSweeper sweeps the store every interval until ctx is cancelled. The
// server runs it alongside the in-memory store, which otherwise grows with
// every abandoned challenge.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// MaskEmail hides the middle of the local part: "renter@mail.com" becomes
// "r****r@mail.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local, rest := email[:at], email[at:]
	if len(local) <= 2 {
		return local[:1] + "***" + rest
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + rest
}
