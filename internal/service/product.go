package service

import (
	"context"

	"renthub-backend/internal/apperrors"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/repository"
)

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) AddProduct(ctx context.Context, product *domain.Product) error {
	if product.Name == "" {
		return apperrors.Validation("product name is required")
	}
	if product.DailyRate <= 0 {
		return apperrors.Validation("daily rate must be positive")
	}
	if product.WeeklyRate < 0 || product.MonthlyRate < 0 || product.FixedDeposit < 0 || product.DeliveryFee < 0 {
		return apperrors.Validation("rates, deposit and delivery fee cannot be negative")
	}
	if product.Status == "" {
		product.Status = domain.ProductStatusAvailable
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return apperrors.Internal("failed to create product", err)
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, id int32) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("product %d not found", id)
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, ownerID int32, product *domain.Product) error {
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return apperrors.NotFound("product %d not found", product.ID)
	}
	if existing.OwnerID != ownerID {
		return apperrors.Authorization("only the owner can update this product")
	}
	if existing.Status == domain.ProductStatusRented && product.Status == domain.ProductStatusUnavailable {
		return apperrors.BadRequest("cannot unlist a product while it is rented out")
	}
	product.OwnerID = existing.OwnerID
	if err := s.productRepo.Update(ctx, product); err != nil {
		return apperrors.Internal("failed to update product", err)
	}
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, ownerID, id int32) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return apperrors.NotFound("product %d not found", id)
	}
	if existing.OwnerID != ownerID {
		return apperrors.Authorization("only the owner can delete this product")
	}
	if existing.Status == domain.ProductStatusRented {
		return apperrors.BadRequest("cannot delete a product while it is rented out")
	}
	if err := s.productRepo.UpdateStatus(ctx, id, domain.ProductStatusUnavailable); err != nil {
		return apperrors.Internal("failed to delete product", err)
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context, page, pageSize int32) ([]domain.Product, int32, error) {
	products, total, err := s.productRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list products", err)
	}
	return products, total, nil
}

func (s *productService) ListMyProducts(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Product, int32, error) {
	products, total, err := s.productRepo.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list products", err)
	}
	return products, total, nil
}
