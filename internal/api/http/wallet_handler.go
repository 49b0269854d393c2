package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

type WalletHandler struct {
	walletSvc service.WalletService
}

func NewWalletHandler(walletSvc service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletSvc.GetBalance(r.Context(), userIDFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, wallet)
}

func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	payments, total, err := h.walletSvc.ListTransactions(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, listData{Items: payments, Total: total})
}

func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	wallet, err := h.walletSvc.TopUp(r.Context(), userIDFrom(r), req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, wallet)
}
