package http

import (
	"context"
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/service"
)

type OrderHandler struct {
	orderSvc service.OrderService
}

func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	order, err := h.orderSvc.CreateOrder(r.Context(), userIDFrom(r), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := h.orderSvc.GetOrder(r.Context(), userIDFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, order)
}

func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderSvc.ConfirmOrder)
}

func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderSvc.PayOrder)
}

func (h *OrderHandler) VerifyTransfer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderSvc.VerifyBankTransfer)
}

func (h *OrderHandler) Ship(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderSvc.ShipOrder)
}

func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderSvc.DeliverOrder)
}

func (h *OrderHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderSvc.StartRental)
}

func (h *OrderHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req service.ReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	order, err := h.orderSvc.ReturnProduct(r.Context(), userIDFrom(r), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	order, err := h.orderSvc.CancelOrder(r.Context(), userIDFrom(r), id, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, order)
}

func (h *OrderHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	orders, total, err := h.orderSvc.ListMyRentals(r.Context(), userIDFrom(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, listData{Items: orders, Total: total})
}

func (h *OrderHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	orders, total, err := h.orderSvc.ListMyLendings(r.Context(), userIDFrom(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, listData{Items: orders, Total: total})
}

// transition factors the endpoints that only need the caller and order id.
func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, orderID int32) (*domain.Order, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	order, err := op(r.Context(), userIDFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, order)
}
