// Package otp implements the one-time-code gate in front of contract
// signing: short-lived, attempt-limited challenges keyed by
// (user, contract), held in a pluggable TTL store.
package otp

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
)

// Challenge is one outstanding verification code. Challenges are
// transient: they live only in the Store and are deleted on success,
// expiry or limit exhaustion.
type Challenge struct {
	UserID      int32             `json:"user_id"`
	ContractID  int32             `json:"contract_id"`
	Code        string            `json:"code"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Role        domain.SignerRole `json:"role"`
	OrderNumber string            `json:"order_number"`
	ExpiresAt   time.Time         `json:"expires_at"`
	Attempts    int               `json:"attempts"`
	Resends     int               `json:"resends"`
	LastSentAt  time.Time         `json:"last_sent_at"`
}

// Store abstracts the keyed TTL storage behind the gate. Implementations
// must treat a missing key as (nil, nil), not an error.
type Store interface {
	GetChallenge(ctx context.Context, key string) (*Challenge, error)
	PutChallenge(ctx context.Context, key string, ch *Challenge, ttl time.Duration) error
	DeleteChallenge(ctx context.Context, key string) error

	// Verified markers record a successful verification for the signing
	// call that follows. TakeVerified reads and deletes in one step so a
	// marker can never be consumed twice.
	PutVerified(ctx context.Context, key string, ttl time.Duration) error
	TakeVerified(ctx context.Context, key string) (bool, error)

	// DeleteExpired sweeps entries past their expiry and returns how many
	// were removed. Stores with native TTL may make this a no-op.
	DeleteExpired(ctx context.Context) (int, error)
}

func challengeKey(userID, contractID int32) string {
	return fmt.Sprintf("otp:challenge:%d:%d", userID, contractID)
}

func verifiedKey(userID, contractID int32) string {
	return fmt.Sprintf("otp:verified:%d:%d", userID, contractID)
}
