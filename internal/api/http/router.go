// Package http exposes the JSON REST surface. Every response uses the
// {status, message, data} envelope; error kinds map onto HTTP statuses.
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"renthub-backend/internal/security"
)

type Handlers struct {
	Auth         *AuthHandler
	Product      *ProductHandler
	Order        *OrderHandler
	Contract     *ContractHandler
	Wallet       *WalletHandler
	Notification *NotificationHandler
}

func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	api.HandleFunc("/products", h.Product.List).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", h.Product.Get).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(authMiddleware(tokens))

	authed.HandleFunc("/products", h.Product.Create).Methods(http.MethodPost)
	authed.HandleFunc("/products/mine", h.Product.ListMine).Methods(http.MethodGet)
	authed.HandleFunc("/products/{id:[0-9]+}", h.Product.Update).Methods(http.MethodPut)
	authed.HandleFunc("/products/{id:[0-9]+}", h.Product.Delete).Methods(http.MethodDelete)

	authed.HandleFunc("/orders", h.Order.Create).Methods(http.MethodPost)
	authed.HandleFunc("/orders/rentals", h.Order.ListRentals).Methods(http.MethodGet)
	authed.HandleFunc("/orders/lendings", h.Order.ListLendings).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id:[0-9]+}", h.Order.Get).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id:[0-9]+}/confirm", h.Order.Confirm).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/pay", h.Order.Pay).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/verify-transfer", h.Order.VerifyTransfer).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/ship", h.Order.Ship).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/deliver", h.Order.Deliver).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/start", h.Order.Start).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/return", h.Order.Return).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/cancel", h.Order.Cancel).Methods(http.MethodPost)
	authed.HandleFunc("/orders/{id:[0-9]+}/contract", h.Contract.GetForOrder).Methods(http.MethodGet)

	authed.HandleFunc("/contracts/{id:[0-9]+}", h.Contract.Get).Methods(http.MethodGet)
	authed.HandleFunc("/contracts/{id:[0-9]+}/send-otp", h.Contract.SendOTP).Methods(http.MethodPost)
	authed.HandleFunc("/contracts/{id:[0-9]+}/verify-otp", h.Contract.VerifyOTP).Methods(http.MethodPost)
	authed.HandleFunc("/contracts/{id:[0-9]+}/sign", h.Contract.Sign).Methods(http.MethodPost)

	authed.HandleFunc("/wallet", h.Wallet.Balance).Methods(http.MethodGet)
	authed.HandleFunc("/wallet/transactions", h.Wallet.Transactions).Methods(http.MethodGet)
	authed.HandleFunc("/wallet/topup", h.Wallet.TopUp).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)

	return router
}
