package http

import (
	"net/http"

	"renthub-backend/internal/service"
)

type ContractHandler struct {
	contractSvc service.ContractService
}

func NewContractHandler(contractSvc service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	contract, err := h.contractSvc.GetContract(r.Context(), userIDFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, contract)
}

func (h *ContractHandler) GetForOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	contract, err := h.contractSvc.GetContractForOrder(r.Context(), userIDFrom(r), orderID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, contract)
}

func (h *ContractHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	result, err := h.contractSvc.SendSignOTP(r.Context(), userIDFrom(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, result)
}

func (h *ContractHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.contractSvc.VerifySignOTP(r.Context(), userIDFrom(r), id, req.Code); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "code verified, you may sign now")
}

func (h *ContractHandler) Sign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req service.SignContractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.IPAddress = clientIP(r)

	contract, err := h.contractSvc.SignContract(r.Context(), userIDFrom(r), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, contract)
}
