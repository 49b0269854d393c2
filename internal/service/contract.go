package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/events"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/otp"
	"renthub-backend/internal/repository"
)

type contractService struct {
	contractRepo repository.ContractRepository
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	sigRepo      repository.SignatureRepository
	noteRepo     repository.NotificationRepository
	otpSvc       *otp.Service
	emailSvc     EmailService
	publisher    events.Publisher
}

func NewContractService(
	contractRepo repository.ContractRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	sigRepo repository.SignatureRepository,
	noteRepo repository.NotificationRepository,
	otpSvc *otp.Service,
	emailSvc EmailService,
	publisher events.Publisher,
) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		sigRepo:      sigRepo,
		noteRepo:     noteRepo,
		otpSvc:       otpSvc,
		emailSvc:     emailSvc,
		publisher:    publisher,
	}
}

func (s *contractService) GetContract(ctx context.Context, userID, contractID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperrors.NotFound("contract %d not found", contractID)
	}
	if _, err := contract.RoleOf(userID); err != nil {
		return nil, apperrors.Authorization("not a party to this contract")
	}
	return contract, nil
}

func (s *contractService) GetContractForOrder(ctx context.Context, userID, orderID int32) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NotFound("no contract for order %d", orderID)
	}
	if _, err := contract.RoleOf(userID); err != nil {
		return nil, apperrors.Authorization("not a party to this contract")
	}
	return contract, nil
}

func (s *contractService) SendSignOTP(ctx context.Context, userID, contractID int32) (*otp.SendResult, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperrors.NotFound("contract %d not found", contractID)
	}
	role, err := contract.RoleOf(userID)
	if err != nil {
		return nil, apperrors.Authorization("not a party to this contract")
	}
	if contract.ExpiredAt(time.Now()) {
		return nil, apperrors.BadRequest("the signing window for contract %s has closed", contract.ContractNumber)
	}
	if err := s.checkSignable(contract, role); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}

	orderNumber := s.orderNumberFor(ctx, contract)
	return s.otpSvc.Send(ctx, otp.SendRequest{
		UserID:      userID,
		ContractID:  contractID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        role,
		OrderNumber: orderNumber,
	})
}

func (s *contractService) VerifySignOTP(ctx context.Context, userID, contractID int32, code string) error {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return apperrors.NotFound("contract %d not found", contractID)
	}
	if _, err := contract.RoleOf(userID); err != nil {
		return apperrors.Authorization("not a party to this contract")
	}
	return s.otpSvc.Verify(ctx, userID, contractID, code)
}

func (s *contractService) SignContract(ctx context.Context, userID, contractID int32, req SignContractRequest) (*domain.Contract, error) {
	if req.Payload == "" {
		return nil, apperrors.Validation("signature payload is required")
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperrors.NotFound("contract %d not found", contractID)
	}
	role, err := contract.RoleOf(userID)
	if err != nil {
		return nil, apperrors.Authorization("not a party to this contract")
	}
	if contract.ExpiredAt(time.Now()) {
		return nil, apperrors.BadRequest("the signing window for contract %s has closed", contract.ContractNumber)
	}

	// Each signature must be preceded by its own successful email
	// verification; the marker is single-use.
	verified, err := s.otpSvc.ConsumeVerified(ctx, userID, contractID)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, apperrors.BadRequest("email verification required before signing")
	}

	now := time.Now()
	sig := domain.SignatureSlot{
		SignedAt:    &now,
		IPAddress:   req.IPAddress,
		Payload:     req.Payload,
		PayloadHash: domain.HashSignaturePayload(req.Payload),
	}
	if err := contract.ApplySignature(role, sig); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadySigned):
			return nil, apperrors.BadRequest("you have already signed this contract")
		case errors.Is(err, domain.ErrNotSignable):
			return nil, apperrors.BadRequest("contract %s is not open for signing", contract.ContractNumber)
		}
		return nil, apperrors.Internal("failed to apply signature", err)
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.BadRequest("contract was updated concurrently, reload and try again")
		}
		return nil, apperrors.Internal("failed to update contract", err)
	}

	if err := s.sigRepo.Upsert(ctx, &domain.StoredSignature{
		UserID:     userID,
		Payload:    req.Payload,
		Width:      req.Width,
		Height:     req.Height,
		Format:     req.Format,
		CapturedAt: now,
	}); err != nil {
		logger.Error("failed to store signature", "user_id", userID, "error", err)
	}

	if contract.IsFullySigned() {
		s.onFullySigned(ctx, contract)
	} else {
		s.notifyCounterparty(ctx, contract, role)
	}

	s.publisher.Publish(events.Event{
		Type:       events.TypeContractStatusChanged,
		ContractID: contract.ID,
		Attributes: map[string]string{
			"contract_number": contract.ContractNumber,
			"status":          string(contract.Status),
		},
	})
	return contract, nil
}

// checkSignable rejects OTP requests that could never lead to a valid
// signature, so users are not sent codes for nothing.
func (s *contractService) checkSignable(contract *domain.Contract, role domain.SignerRole) error {
	switch contract.Status {
	case domain.ContractStatusDraft, domain.ContractStatusPendingSignature,
		domain.ContractStatusPendingOwner, domain.ContractStatusPendingRenter:
	default:
		return apperrors.BadRequest("contract %s is not open for signing", contract.ContractNumber)
	}
	slot := contract.OwnerSignature
	if role == domain.SignerRoleRenter {
		slot = contract.RenterSignature
	}
	if slot.Signed {
		return apperrors.BadRequest("you have already signed this contract")
	}
	return nil
}

func (s *contractService) orderNumberFor(ctx context.Context, contract *domain.Contract) string {
	if contract.Parent.Kind != domain.ParentKindOrder {
		return contract.ContractNumber
	}
	order, err := s.orderRepo.GetByID(ctx, contract.Parent.OrderID)
	if err != nil {
		return contract.ContractNumber
	}
	return order.OrderNumber
}

// onFullySigned flips the parent order to CONTRACT_SIGNED and tells both
// parties the contract is binding.
func (s *contractService) onFullySigned(ctx context.Context, contract *domain.Contract) {
	if contract.Parent.Kind == domain.ParentKindOrder {
		order, err := s.orderRepo.GetByID(ctx, contract.Parent.OrderID)
		if err == nil && order.CanApply(domain.OrderEventContractSigned) {
			if err := order.Apply(domain.OrderEventContractSigned); err == nil {
				if err := s.orderRepo.Update(ctx, order); err != nil {
					logger.Error("failed to advance order after signing", "order_id", order.ID, "error", err)
				}
			}
		}
	}

	for _, userID := range []int32{contract.OwnerID, contract.RenterID} {
		if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
			_ = s.emailSvc.SendContractSignedNotification(ctx, user.Email, contract.ContractNumber)
		}
		_ = s.noteRepo.Create(ctx, &domain.Notification{
			UserID:  userID,
			Title:   "Contract Signed",
			Message: fmt.Sprintf("Contract %s has been signed by both parties", contract.ContractNumber),
			Attributes: map[string]string{
				"type":        "CONTRACT_SIGNED",
				"contract_id": fmt.Sprintf("%d", contract.ID),
			},
		})
	}
}

func (s *contractService) notifyCounterparty(ctx context.Context, contract *domain.Contract, signedRole domain.SignerRole) {
	counterparty := contract.OwnerID
	if signedRole == domain.SignerRoleOwner {
		counterparty = contract.RenterID
	}
	if user, err := s.userRepo.GetByID(ctx, counterparty); err == nil {
		_ = s.emailSvc.SendContractReadyNotification(ctx, user.Email, user.Name, contract.ContractNumber)
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:  counterparty,
		Title:   "Your Signature Is Needed",
		Message: fmt.Sprintf("The other party signed contract %s, your signature is pending", contract.ContractNumber),
		Attributes: map[string]string{
			"type":        "CONTRACT_AWAITING_SIGNATURE",
			"contract_id": fmt.Sprintf("%d", contract.ID),
		},
	})
}
