package jobs

import (
	"context"
	"time"

	"renthub-backend/internal/logger"
	"renthub-backend/internal/pricing"
)

// SendReturnReminders emails renters whose active rentals have run past
// their planned end date. Overdue days keep accruing overtime until the
// owner records the return.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		now := time.Now()

		orders, err := jr.store.OrderRepository.ListActivePastEnd(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		sent := 0
		for i := range orders {
			order := &orders[i]
			renter, err := jr.store.UserRepository.GetByID(ctx, order.RenterID)
			if err != nil {
				logger.Error("Failed to load renter", "order_id", order.ID, "error", err)
				continue
			}
			product, err := jr.store.ProductRepository.GetByID(ctx, order.ProductID)
			if err != nil {
				logger.Error("Failed to load product", "order_id", order.ID, "error", err)
				continue
			}

			overdueDays := pricing.OverdueDays(order.Rental.EndDate, now)
			if err := jr.services.Email.SendReturnReminderNotification(ctx, renter.Email, product.Name, order.OrderNumber, overdueDays); err != nil {
				logger.Error("Failed to send return reminder", "order_id", order.ID, "error", err)
				continue
			}
			sent++
		}

		if sent > 0 {
			logger.Info("Sent return reminders", "count", sent)
		}
	})
}
