package ports

import (
	"context"

	"github.com/csemotors/dealership/internal/core/domain"
)

// InventoryRepository defines persistence for vehicles and their
// classifications.
type InventoryRepository interface {
	Classifications(ctx context.Context) ([]domain.Classification, error)
	AddClassification(ctx context.Context, name string) (*domain.Classification, error)

	VehiclesByClassification(ctx context.Context, classificationID int) ([]domain.Vehicle, error)
	VehicleByID(ctx context.Context, id int) (*domain.Vehicle, error)
	AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int) error
}
