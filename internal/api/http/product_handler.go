package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/service"
)

type ProductHandler struct {
	productSvc service.ProductService
}

func NewProductHandler(productSvc service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid %s %q", name, raw)
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := decodeJSON(r, &product); err != nil {
		respondError(w, err)
		return
	}
	product.OwnerID = userIDFrom(r)

	if err := h.productSvc.AddProduct(r.Context(), &product); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, product)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var product domain.Product
	if err := decodeJSON(r, &product); err != nil {
		respondError(w, err)
		return
	}
	product.ID = id

	if err := h.productSvc.UpdateProduct(r.Context(), userIDFrom(r), &product); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.productSvc.DeleteProduct(r.Context(), userIDFrom(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "product removed")
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	products, total, err := h.productSvc.ListProducts(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, listData{Items: products, Total: total})
}

func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	products, total, err := h.productSvc.ListMyProducts(r.Context(), userIDFrom(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, listData{Items: products, Total: total})
}
