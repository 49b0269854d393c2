package postgres

import (
	"database/sql"
	"strconv"

	"renthub-backend/internal/repository"

	_ "github.com/lib/pq"
)

func placeholder(n int) string { return "$" + strconv.Itoa(n) }

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ProductRepository
	repository.OrderRepository
	repository.ContractRepository
	repository.SignatureRepository
	repository.WalletRepository
	repository.PaymentRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ProductRepository:      NewProductRepository(db),
		OrderRepository:        NewOrderRepository(db),
		ContractRepository:     NewContractRepository(db),
		SignatureRepository:    NewSignatureRepository(db),
		WalletRepository:       NewWalletRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
