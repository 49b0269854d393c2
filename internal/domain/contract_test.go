package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func pendingContract() *Contract {
	return &Contract{
		ID:             1,
		ContractNumber: "CTR-TEST1",
		Parent:         OrderParent(10),
		OwnerID:        100,
		RenterID:       200,
		ProductID:      5,
		Terms: ContractTerms{
			RentalRate:      100000,
			Deposit:         300000,
			Total:           1300000,
			LatePenaltyRate: 1.5,
		},
		Status:    ContractStatusPendingSignature,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func signatureFor(payload string) SignatureSlot {
	now := time.Now().UTC()
	return SignatureSlot{
		SignedAt:    &now,
		IPAddress:   "203.0.113.7",
		Payload:     payload,
		PayloadHash: HashSignaturePayload(payload),
	}
}

func TestApplySignature_OwnerFirst(t *testing.T) {
	c := pendingContract()

	assert.NoError(t, c.ApplySignature(SignerRoleOwner, signatureFor("owner-sig")))
	assert.Equal(t, ContractStatusPendingRenter, c.Status)
	assert.True(t, c.OwnerSignature.Signed)
	assert.False(t, c.IsFullySigned())
	assert.False(t, c.IsActive)
	assert.Empty(t, c.Verification.ContractHash, "hash is only sealed on the closing signature")

	assert.NoError(t, c.ApplySignature(SignerRoleRenter, signatureFor("renter-sig")))
	assert.Equal(t, ContractStatusSigned, c.Status)
	assert.True(t, c.IsFullySigned())
	assert.True(t, c.IsActive)
	assert.True(t, c.Verification.OwnerVerified)
	assert.True(t, c.Verification.RenterVerified)
	assert.NotEmpty(t, c.Verification.ContractHash)
	assert.NotNil(t, c.Verification.VerifiedAt)
}

func TestApplySignature_RenterFirst(t *testing.T) {
	c := pendingContract()

	assert.NoError(t, c.ApplySignature(SignerRoleRenter, signatureFor("renter-sig")))
	assert.Equal(t, ContractStatusPendingOwner, c.Status)

	assert.NoError(t, c.ApplySignature(SignerRoleOwner, signatureFor("owner-sig")))
	assert.Equal(t, ContractStatusSigned, c.Status)
}

func TestApplySignature_DoubleSign(t *testing.T) {
	c := pendingContract()
	assert.NoError(t, c.ApplySignature(SignerRoleOwner, signatureFor("first")))

	err := c.ApplySignature(SignerRoleOwner, signatureFor("second"))
	assert.ErrorIs(t, err, ErrAlreadySigned)
	assert.Equal(t, "first", c.OwnerSignature.Payload, "original signature is retained")
}

func TestApplySignature_NotSignable(t *testing.T) {
	for _, status := range []ContractStatus{
		ContractStatusSigned,
		ContractStatusActive,
		ContractStatusCompleted,
		ContractStatusTerminated,
		ContractStatusExpired,
	} {
		c := pendingContract()
		c.Status = status
		err := c.ApplySignature(SignerRoleRenter, signatureFor("sig"))
		assert.ErrorIs(t, err, ErrNotSignable, "status %s", status)
	}
}

func TestSeal_ComputedOnce(t *testing.T) {
	c := pendingContract()
	assert.NoError(t, c.ApplySignature(SignerRoleOwner, signatureFor("owner-sig")))
	assert.NoError(t, c.ApplySignature(SignerRoleRenter, signatureFor("renter-sig")))

	sealed := c.Verification
	c.seal()
	assert.Equal(t, sealed, c.Verification, "sealing again must not change the hash")
}

func TestRoleOf(t *testing.T) {
	c := pendingContract()

	role, err := c.RoleOf(100)
	assert.NoError(t, err)
	assert.Equal(t, SignerRoleOwner, role)

	role, err = c.RoleOf(200)
	assert.NoError(t, err)
	assert.Equal(t, SignerRoleRenter, role)

	_, err = c.RoleOf(999)
	assert.ErrorIs(t, err, ErrNotContractParty)
}

func TestExpiredAt(t *testing.T) {
	c := pendingContract()
	c.ExpiresAt = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, c.ExpiredAt(c.ExpiresAt.Add(-time.Minute)))
	assert.True(t, c.ExpiredAt(c.ExpiresAt.Add(time.Minute)))

	c.Status = ContractStatusSigned
	assert.False(t, c.ExpiredAt(c.ExpiresAt.Add(time.Hour)), "signed contracts never expire")
}

func TestHashSignaturePayload(t *testing.T) {
	h := HashSignaturePayload("data:image/png;base64,AAAA")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashSignaturePayload("data:image/png;base64,AAAA"))
	assert.NotEqual(t, h, HashSignaturePayload("data:image/png;base64,BBBB"))
}
