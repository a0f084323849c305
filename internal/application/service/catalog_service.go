package service

import (
	"context"

	"github.com/denisokoth/shopcore-api/internal/domain/entity"
	"github.com/denisokoth/shopcore-api/internal/domain/repository"
	"github.com/denisokoth/shopcore-api/pkg/apperror"
	"github.com/denisokoth/shopcore-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService manages products and customers
type CatalogService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(productRepo repository.ProductRepository, customerRepo repository.CustomerRepository) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name              string
	Sku               string
	Price             decimal.Decimal
	StockQuantity     int
	LowStockThreshold *int
	TrackInventory    bool
	AllowBackorder    bool
}

// CreateProduct registers a new product
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" || input.Sku == "" {
		return nil, apperror.NewBadRequestError("Product name and SKU are required")
	}
	if input.Price.IsNegative() {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}

	product := &entity.Product{
		Name:              input.Name,
		Sku:               input.Sku,
		Price:             input.Price.Round(2),
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: input.LowStockThreshold,
		TrackInventory:    input.TrackInventory,
		AllowBackorder:    input.AllowBackorder,
		IsActive:          true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name              *string
	Price             *decimal.Decimal
	LowStockThreshold *int
	TrackInventory    *bool
	AllowBackorder    *bool
	IsActive          *bool
}

// UpdateProduct updates mutable product fields. Stock changes go
// through the inventory service, never through here.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		product.Price = input.Price.Round(2)
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = input.LowStockThreshold
	}
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	}
	if input.AllowBackorder != nil {
		product.AllowBackorder = *input.AllowBackorder
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// CreateCustomer registers a new customer
func (s *CatalogService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Email == "" {
		return nil, apperror.NewBadRequestError("Customer email is required")
	}

	existing, err := s.customerRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Customer email already registered")
	}

	customer := &entity.Customer{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CatalogService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with optional search
func (s *CatalogService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}
