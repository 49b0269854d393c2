package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/events"
	"renthub-backend/internal/otp"
	"renthub-backend/internal/repository"
)

// otpCapture satisfies otp.Sender and keeps the last code so tests can
// complete the verification step.
type otpCapture struct {
	code string
}

func (c *otpCapture) SendOTPEmail(ctx context.Context, email, name, code, orderNumber string) error {
	c.code = code
	return nil
}

type contractFixture struct {
	contractRepo *MockContractRepo
	orderRepo    *MockOrderRepo
	userRepo     *MockUserRepo
	sigRepo      *MockSignatureRepo
	noteRepo     *MockNotificationRepo
	otpCodes     *otpCapture
	svc          ContractService
}

func newContractFixture() *contractFixture {
	f := &contractFixture{
		contractRepo: new(MockContractRepo),
		orderRepo:    new(MockOrderRepo),
		userRepo:     new(MockUserRepo),
		sigRepo:      new(MockSignatureRepo),
		noteRepo:     new(MockNotificationRepo),
		otpCodes:     &otpCapture{},
	}
	otpSvc := otp.NewService(otp.NewMemoryStore(), f.otpCodes)
	f.svc = NewContractService(
		f.contractRepo, f.orderRepo, f.userRepo, f.sigRepo, f.noteRepo,
		otpSvc, stubEmail{}, events.NewNoopPublisher(),
	)
	return f
}

func signableContract() *domain.Contract {
	return &domain.Contract{
		ID:             77,
		ContractNumber: "CTR-BBBB2222",
		Parent:         domain.OrderParent(10),
		OwnerID:        1,
		RenterID:       2,
		ProductID:      5,
		Terms: domain.ContractTerms{
			RentalRate:      100000,
			Deposit:         150000,
			Total:           650000,
			LatePenaltyRate: 1.5,
		},
		Status:    domain.ContractStatusPendingSignature,
		ExpiresAt: time.Now().Add(48 * time.Hour),
	}
}

// passVerification runs the send/verify steps so the user holds a fresh
// verified marker.
func (f *contractFixture) passVerification(t *testing.T, ctx context.Context, userID int32) {
	t.Helper()
	res, err := f.svc.SendSignOTP(ctx, userID, 77)
	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.NoError(t, f.svc.VerifySignOTP(ctx, userID, 77, f.otpCodes.code))
}

func TestSignContract_BothParties(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	contract := signableContract()
	parentOrder := confirmedOrder()
	parentOrder.Status = domain.OrderStatusContractPending

	f.contractRepo.On("GetByID", ctx, int32(77)).Return(contract, nil)
	f.contractRepo.On("Update", ctx, contract).Return(nil)
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(parentOrder, nil)
	f.orderRepo.On("Update", ctx, parentOrder).Return(nil)
	f.userRepo.On("GetByID", ctx, int32(1)).Return(testOwner, nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)
	f.sigRepo.On("Upsert", ctx, mock.AnythingOfType("*domain.StoredSignature")).Return(nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	f.passVerification(t, ctx, 2)
	got, err := f.svc.SignContract(ctx, 2, 77, SignContractRequest{
		Payload:   "data:image/png;base64,renter",
		IPAddress: "203.0.113.7",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.ContractStatusPendingOwner, got.Status)
	assert.True(t, got.RenterSignature.Signed)
	assert.Equal(t, "203.0.113.7", got.RenterSignature.IPAddress)
	assert.NotEmpty(t, got.RenterSignature.PayloadHash)

	f.passVerification(t, ctx, 1)
	got, err = f.svc.SignContract(ctx, 1, 77, SignContractRequest{
		Payload: "data:image/png;base64,owner",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.ContractStatusSigned, got.Status)
	assert.True(t, got.IsFullySigned())
	assert.NotEmpty(t, got.Verification.ContractHash)

	assert.Equal(t, domain.OrderStatusContractSigned, parentOrder.Status)
	f.sigRepo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestSignContract_RequiresVerification(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	f.contractRepo.On("GetByID", ctx, int32(77)).Return(signableContract(), nil)

	_, err := f.svc.SignContract(ctx, 2, 77, SignContractRequest{Payload: "sig"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "email verification required")
}

func TestSignContract_VerificationIsSingleUse(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	contract := signableContract()
	f.contractRepo.On("GetByID", ctx, int32(77)).Return(contract, nil)
	f.contractRepo.On("Update", ctx, contract).Return(nil)
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(confirmedOrder(), nil)
	f.userRepo.On("GetByID", ctx, mock.Anything).Return(testRenter, nil)
	f.sigRepo.On("Upsert", ctx, mock.Anything).Return(nil)
	f.noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	f.passVerification(t, ctx, 2)
	_, err := f.svc.SignContract(ctx, 2, 77, SignContractRequest{Payload: "sig"})
	assert.NoError(t, err)

	// A second signing attempt needs a fresh verification even before the
	// already-signed check fires.
	_, err = f.svc.SignContract(ctx, 2, 77, SignContractRequest{Payload: "sig"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "email verification required")
}

func TestSignContract_EmptyPayload(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	_, err := f.svc.SignContract(ctx, 2, 77, SignContractRequest{})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSignContract_VersionConflict(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	contract := signableContract()
	f.contractRepo.On("GetByID", ctx, int32(77)).Return(contract, nil)
	f.contractRepo.On("Update", ctx, contract).Return(repository.ErrVersionConflict)
	f.orderRepo.On("GetByID", ctx, int32(10)).Return(confirmedOrder(), nil)
	f.userRepo.On("GetByID", ctx, int32(2)).Return(testRenter, nil)

	f.passVerification(t, ctx, 2)
	_, err := f.svc.SignContract(ctx, 2, 77, SignContractRequest{Payload: "sig"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "concurrently")
}

func TestSignContract_Expired(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	contract := signableContract()
	contract.ExpiresAt = time.Now().Add(-time.Hour)
	f.contractRepo.On("GetByID", ctx, int32(77)).Return(contract, nil)

	_, err := f.svc.SignContract(ctx, 2, 77, SignContractRequest{Payload: "sig"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	assert.Contains(t, err.Error(), "signing window")
}

func TestSendSignOTP_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("not a party", func(t *testing.T) {
		f := newContractFixture()
		f.contractRepo.On("GetByID", ctx, int32(77)).Return(signableContract(), nil)

		_, err := f.svc.SendSignOTP(ctx, 99, 77)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})

	t.Run("already signed", func(t *testing.T) {
		f := newContractFixture()
		contract := signableContract()
		contract.RenterSignature.Signed = true
		contract.Status = domain.ContractStatusPendingOwner
		f.contractRepo.On("GetByID", ctx, int32(77)).Return(contract, nil)

		_, err := f.svc.SendSignOTP(ctx, 2, 77)
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
		assert.Empty(t, f.otpCodes.code, "no code is dispatched for a signed slot")
	})

	t.Run("signing window closed", func(t *testing.T) {
		f := newContractFixture()
		contract := signableContract()
		contract.ExpiresAt = time.Now().Add(-time.Hour)
		f.contractRepo.On("GetByID", ctx, int32(77)).Return(contract, nil)

		_, err := f.svc.SendSignOTP(ctx, 2, 77)
		assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
	})
}

func TestGetContract_Authorization(t *testing.T) {
	ctx := context.Background()
	f := newContractFixture()

	f.contractRepo.On("GetByID", ctx, int32(77)).Return(signableContract(), nil)

	got, err := f.svc.GetContract(ctx, 1, 77)
	assert.NoError(t, err)
	assert.Equal(t, int32(77), got.ID)

	_, err = f.svc.GetContract(ctx, 99, 77)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}
