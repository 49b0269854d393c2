package service

import (
	"context"
	"fmt"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type walletService struct {
	walletRepo  repository.WalletRepository
	paymentRepo repository.PaymentRepository
}

func NewWalletService(walletRepo repository.WalletRepository, paymentRepo repository.PaymentRepository) WalletService {
	return &walletService{walletRepo: walletRepo, paymentRepo: paymentRepo}
}

func (s *walletService) GetBalance(ctx context.Context, userID int32) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load wallet", err)
	}
	return wallet, nil
}

func (s *walletService) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Payment, int32, error) {
	payments, total, err := s.paymentRepo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list transactions", err)
	}
	return payments, total, nil
}

func (s *walletService) TopUp(ctx context.Context, userID int32, amount int64) (*domain.Wallet, error) {
	if amount <= 0 {
		return nil, apperrors.Validation("top-up amount must be positive")
	}
	payment := &domain.Payment{
		UserID:      userID,
		Amount:      amount,
		Type:        domain.PaymentTypeWalletTopUp,
		Method:      domain.PaymentMethodBankTransfer,
		Status:      domain.PaymentRecordStatusCompleted,
		Description: fmt.Sprintf("Wallet top-up of %d", amount),
	}
	if err := s.walletRepo.Credit(ctx, userID, amount, payment); err != nil {
		return nil, apperrors.Internal("failed to credit wallet", err)
	}
	return s.GetBalance(ctx, userID)
}
