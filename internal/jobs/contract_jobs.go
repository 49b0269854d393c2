package jobs

import (
	"context"
	"errors"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

// ExpireStaleContracts voids unsigned contracts whose signing window has
// passed and cancels the orders waiting on them.
func (jr *JobRunner) ExpireStaleContracts() {
	jr.runWithRecovery("ExpireStaleContracts", func() {
		ctx := context.Background()

		contracts, err := jr.store.ContractRepository.ListExpiredUnsigned(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list expired contracts", "error", err)
			return
		}

		expired := 0
		for i := range contracts {
			contract := &contracts[i]
			contract.Status = domain.ContractStatusExpired
			contract.IsActive = false
			if err := jr.store.ContractRepository.Update(ctx, contract); err != nil {
				if errors.Is(err, repository.ErrVersionConflict) {
					// A signature landed between the listing and the update;
					// leave the contract alone.
					continue
				}
				logger.Error("Failed to expire contract", "contract_id", contract.ID, "error", err)
				continue
			}
			expired++

			jr.cancelOrderForExpiredContract(ctx, contract)
		}

		if expired > 0 {
			logger.Info("Expired stale contracts", "count", expired)
		}
	})
}

func (jr *JobRunner) cancelOrderForExpiredContract(ctx context.Context, contract *domain.Contract) {
	if contract.Parent.Kind != domain.ParentKindOrder {
		return
	}
	order, err := jr.store.OrderRepository.GetByID(ctx, contract.Parent.OrderID)
	if err != nil {
		logger.Error("Failed to load order for expired contract", "order_id", contract.Parent.OrderID, "error", err)
		return
	}
	if !order.CanApply(domain.OrderEventCancel) {
		return
	}
	if err := order.Apply(domain.OrderEventCancel); err != nil {
		return
	}
	order.Cancellation = &domain.Cancellation{
		CancelledBy: 0, // system
		CancelledAt: time.Now(),
		Reason:      "contract signing window expired",
	}
	if err := jr.store.OrderRepository.Update(ctx, order); err != nil {
		logger.Error("Failed to cancel order for expired contract", "order_id", order.ID, "error", err)
		return
	}
	logger.Info("Cancelled order after contract expiry", "order_id", order.ID, "contract_id", contract.ID)
}
