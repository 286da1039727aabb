package repository

import (
	"context"
	"fmt"

	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/database"
	"github.com/Sakshi-mali06/Krushi-Sevak-Backend-new/internal/model"
)

type DistributorRepository struct {
	db database.DB
}

func NewDistributorRepository(db database.DB) *DistributorRepository {
	return &DistributorRepository{db: db}
}

// Create inserts a distributor exactly as submitted and sets its generated id.
// Duplicate mobiles are accepted.
func (r *DistributorRepository) Create(ctx context.Context, d *model.Distributor) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO distributors (name, mobile, location, product_type, password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, d.Name, d.Mobile, d.Location, d.ProductType, d.Password).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert distributor: %w", err)
	}
	return nil
}

func (r *DistributorRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM distributors`).Scan(&count)
	return count, err
}

type FarmerRepository struct {
	db database.DB
}

func NewFarmerRepository(db database.DB) *FarmerRepository {
	return &FarmerRepository{db: db}
}

func (r *FarmerRepository) Create(ctx context.Context, f *model.Farmer) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO farmers (name, mobile, location, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, f.Name, f.Mobile, f.Location, f.Password).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("insert farmer: %w", err)
	}
	return nil
}

func (r *FarmerRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM farmers`).Scan(&count)
	return count, err
}
