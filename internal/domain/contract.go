package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type ContractStatus string

const (
	ContractStatusDraft            ContractStatus = "DRAFT"
	ContractStatusPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractStatusPendingOwner     ContractStatus = "PENDING_OWNER"
	ContractStatusPendingRenter    ContractStatus = "PENDING_RENTER"
	ContractStatusSigned           ContractStatus = "SIGNED"
	ContractStatusActive           ContractStatus = "ACTIVE"
	ContractStatusCompleted        ContractStatus = "COMPLETED"
	ContractStatusTerminated       ContractStatus = "TERMINATED"
	ContractStatusExpired          ContractStatus = "EXPIRED"
)

type SignerRole string

const (
	SignerRoleOwner  SignerRole = "owner"
	SignerRoleRenter SignerRole = "renter"
)

var (
	ErrAlreadySigned    = errors.New("party has already signed")
	ErrNotSignable      = errors.New("contract is not in a signable status")
	ErrNotContractParty = errors.New("user is not a party to this contract")
)

// ContractParentKind discriminates which order pipeline created the
// contract.
type ContractParentKind string

const (
	ParentKindOrder    ContractParentKind = "ORDER"
	ParentKindSubOrder ContractParentKind = "SUB_ORDER"
)

// ContractParent is a tagged union: exactly one variant is populated,
// selected by Kind. OrderID is set for ORDER; SubOrderID and MasterOrderID
// for SUB_ORDER.
type ContractParent struct {
	Kind          ContractParentKind `json:"kind"`
	OrderID       int32              `json:"order_id,omitempty"`
	SubOrderID    int32              `json:"sub_order_id,omitempty"`
	MasterOrderID int32              `json:"master_order_id,omitempty"`
}

func OrderParent(orderID int32) ContractParent {
	return ContractParent{Kind: ParentKindOrder, OrderID: orderID}
}

func SubOrderParent(subOrderID, masterOrderID int32) ContractParent {
	return ContractParent{Kind: ParentKindSubOrder, SubOrderID: subOrderID, MasterOrderID: masterOrderID}
}

type ContractTerms struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	// RentalRate is the daily rate snapshot the late penalty is derived
	// from: overdue days are billed at RentalRate * LatePenaltyRate.
	RentalRate      int64   `json:"rental_rate"`
	Deposit         int64   `json:"deposit"`
	Total           int64   `json:"total"`
	LatePenaltyRate float64 `json:"late_penalty_rate"`
	DamagePenalty   int64   `json:"damage_penalty"`
}

// SignatureSlot records one party's signature event. PayloadHash is the
// hex SHA-256 of Payload; a mismatch indicates tampering.
type SignatureSlot struct {
	Signed      bool       `json:"signed"`
	SignedAt    *time.Time `json:"signed_at,omitempty"`
	IPAddress   string     `json:"ip_address,omitempty"`
	Payload     string     `json:"payload,omitempty"`
	PayloadHash string     `json:"payload_hash,omitempty"`
}

// Verification is populated once, when the second signature lands, and
// never recomputed afterwards.
type Verification struct {
	OwnerVerified  bool       `json:"owner_verified"`
	RenterVerified bool       `json:"renter_verified"`
	ContractHash   string     `json:"contract_hash,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
}

type Contract struct {
	ID             int32          `json:"id"`
	ContractNumber string         `json:"contract_number"`
	Parent         ContractParent `json:"parent"`
	OwnerID        int32          `json:"owner_id"`
	RenterID       int32          `json:"renter_id"`
	ProductID      int32          `json:"product_id"`
	Terms          ContractTerms  `json:"terms"`
	OwnerSignature  SignatureSlot `json:"owner_signature"`
	RenterSignature SignatureSlot `json:"renter_signature"`
	Status       ContractStatus `json:"status"`
	ContentHTML  string         `json:"content_html,omitempty"`
	PDFURL       string         `json:"pdf_url,omitempty"`
	Verification Verification   `json:"verification"`
	IsActive     bool           `json:"is_active"`
	ExpiresAt    time.Time      `json:"expires_at"`
	// Version guards concurrent same-party signature submissions; repository
	// updates are conditional on it.
	Version   int32     `json:"version"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsFullySigned is derived from the two signature slots; it is never
// stored, so it cannot go stale.
func (c *Contract) IsFullySigned() bool {
	return c.OwnerSignature.Signed && c.RenterSignature.Signed
}

// RoleOf resolves which side of the contract userID is on.
func (c *Contract) RoleOf(userID int32) (SignerRole, error) {
	switch userID {
	case c.OwnerID:
		return SignerRoleOwner, nil
	case c.RenterID:
		return SignerRoleRenter, nil
	default:
		return "", ErrNotContractParty
	}
}

func (c *Contract) slot(role SignerRole) *SignatureSlot {
	if role == SignerRoleOwner {
		return &c.OwnerSignature
	}
	return &c.RenterSignature
}

func (c *Contract) signable() bool {
	switch c.Status {
	case ContractStatusDraft, ContractStatusPendingSignature,
		ContractStatusPendingOwner, ContractStatusPendingRenter:
		return true
	}
	return false
}

// ApplySignature records one party's signature and advances the status.
// Signing order is symmetric: whichever party signs first moves the
// contract to waiting-for-the-other; the closing signature makes it SIGNED,
// activates it, and seals the verification hash.
func (c *Contract) ApplySignature(role SignerRole, sig SignatureSlot) error {
	if !c.signable() {
		return fmt.Errorf("%w: status %s", ErrNotSignable, c.Status)
	}
	s := c.slot(role)
	if s.Signed {
		return fmt.Errorf("%w: %s", ErrAlreadySigned, role)
	}

	sig.Signed = true
	*s = sig

	if c.IsFullySigned() {
		c.Status = ContractStatusSigned
		c.IsActive = true
		c.seal()
		return nil
	}
	if role == SignerRoleOwner {
		c.Status = ContractStatusPendingRenter
	} else {
		c.Status = ContractStatusPendingOwner
	}
	return nil
}

// seal computes the tamper-evidence hash over the contract number, terms
// and both signatures. Once set it is never recomputed.
func (c *Contract) seal() {
	if c.Verification.ContractHash != "" {
		return
	}
	now := time.Now().UTC()
	payload := struct {
		ContractNumber string        `json:"contract_number"`
		Terms          ContractTerms `json:"terms"`
		Owner          SignatureSlot `json:"owner"`
		Renter         SignatureSlot `json:"renter"`
	}{c.ContractNumber, c.Terms, c.OwnerSignature, c.RenterSignature}

	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	c.Verification = Verification{
		OwnerVerified:  true,
		RenterVerified: true,
		ContractHash:   hex.EncodeToString(sum[:]),
		VerifiedAt:     &now,
	}
}

// ExpiredAt reports whether an unsigned contract has outlived its signing
// window.
func (c *Contract) ExpiredAt(now time.Time) bool {
	return c.signable() && now.After(c.ExpiresAt)
}

// HashSignaturePayload is the canonical digest stored alongside every
// signature payload.
func HashSignaturePayload(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
