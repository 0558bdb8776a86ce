package service

import (
	"context"
	"errors"
	"strings"


	"shopfront/internal/database"
	"shopfront/internal/ids"
	"shopfront/internal/models"
	"shopfront/internal/repository"
)

type PurchaseOrderStore interface {
	Create(ctx context.Context, db database.DB, po models.PurchaseOrder) (models.PurchaseOrder, error)
	GetByID(ctx context.Context, db database.DB, id string, forUpdate bool) (models.PurchaseOrder, error)
	List(ctx context.Context, limit, offset int) ([]models.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, db database.DB, id string, status models.PurchaseOrderStatus) error
}

type PurchaseInput struct {
	Supplier string
	Status   models.PurchaseOrderStatus
	Items    []models.PurchaseOrderItem
}

type PurchaseService struct {
	db        database.DB
	tx        database.Transactor
	purchases PurchaseOrderStore
	stock     StockAdjuster
}

func NewPurchaseService(db database.DB, tx database.Transactor, purchases PurchaseOrderStore, stock StockAdjuster) *PurchaseService {
	return &PurchaseService{db: db, tx: tx, purchases: purchases, stock: stock}
}

func (s *PurchaseService) Create(ctx context.Context, createdBy string, input PurchaseInput) (models.PurchaseOrder, error) {
	supplier := strings.TrimSpace(input.Supplier)
	if supplier == "" {
		return models.PurchaseOrder{}, validation("Supplier is required")
	}
	if len(input.Items) == 0 {
		return models.PurchaseOrder{}, validation("At least one item is required")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return models.PurchaseOrder{}, validation("Item quantity must be at least 1")
		}
		if item.UnitCostCents < 0 {
			return models.PurchaseOrder{}, validation("Unit cost cannot be negative")
		}
	}

	status := input.Status
	if status == "" {
		status = models.PurchaseOrderDraft
	}
	if status != models.PurchaseOrderDraft && status != models.PurchaseOrderOrdered {
		return models.PurchaseOrder{}, validation("New purchase orders must be draft or ordered")
	}

	po := models.PurchaseOrder{
		ID:        ids.New(),
		Supplier:  supplier,
		Status:    status,
		Items:     input.Items,
		CreatedBy: createdBy,
	}

	var created models.PurchaseOrder
	err := s.tx.InTx(ctx, func(tx database.DB) error {
		var err error
		created, err = s.purchases.Create(ctx, tx, po)
		return err
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		return models.PurchaseOrder{}, validation("Unknown product in items")
	}
	return created, err
}

func (s *PurchaseService) Get(ctx context.Context, id string) (models.PurchaseOrder, error) {
	po, err := s.purchases.GetByID(ctx, s.db, id, false)
	if errors.Is(err, repository.ErrPurchaseOrderNotFound) {
		return models.PurchaseOrder{}, notFound("Purchase order not found")
	}
	return po, err
}

func (s *PurchaseService) List(ctx context.Context, limit, offset int) ([]models.PurchaseOrder, error) {
	return s.purchases.List(ctx, limit, offset)
}

// UpdateStatus moves a purchase order forward. Receiving adds every line's
// quantity to product stock in the same transaction.
func (s *PurchaseService) UpdateStatus(ctx context.Context, id string, status models.PurchaseOrderStatus) (models.PurchaseOrder, error) {
	if !status.Valid() {
		return models.PurchaseOrder{}, validation("Unknown purchase order status %q", status)
	}

	var result models.PurchaseOrder
	err := s.tx.InTx(ctx, func(tx database.DB) error {
		po, err := s.purchases.GetByID(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if po.Status.Terminal() {
			return conflict("Purchase order is already %s", po.Status)
		}

		if status == models.PurchaseOrderReceived {
			for _, item := range po.Items {
				if err := s.stock.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		if err := s.purchases.UpdateStatus(ctx, tx, id, status); err != nil {
			return err
		}
		po.Status = status
		result = po
		return nil
	})
	if errors.Is(err, repository.ErrPurchaseOrderNotFound) {
		return models.PurchaseOrder{}, notFound("Purchase order not found")
	}
	if err != nil {
		return models.PurchaseOrder{}, err
	}
	return result, nil
}
