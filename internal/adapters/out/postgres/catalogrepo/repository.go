package catalogrepo

import (
	"context"
	"errors"

	"dispatch/internal/adapters/out/postgres/dberrors"
	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormWarehouseRepository struct {
	db *gorm.DB
}

func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

func (r *GormWarehouseRepository) Add(ctx context.Context, w *catalog.Warehouse) error {
	if err := w.Validate(); err != nil {
		return err
	}
	dto := warehouseFromDomain(w)
	return dberrors.Translate("warehouse", w.ID(), r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormWarehouseRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Warehouse, error) {
	var dto WarehouseDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("warehouse", id.String())
		}
		return nil, err
	}
	return warehouseToDomain(dto)
}

func (r *GormWarehouseRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*catalog.Warehouse, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var dtos []WarehouseDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	warehouses := make([]*catalog.Warehouse, 0, len(dtos))
	for _, dto := range dtos {
		w, err := warehouseToDomain(dto)
		if err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, nil
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Add(ctx context.Context, p *catalog.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := productFromDomain(p)
	return dberrors.Translate("product", p.ID(), r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error) {
	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}
	return productToDomain(dto)
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []kernel.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	products := make([]*catalog.Product, 0, len(dtos))
	for _, dto := range dtos {
		p, err := productToDomain(dto)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return raw
}
