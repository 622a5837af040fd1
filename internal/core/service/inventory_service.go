package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// InventoryService implements browse and management operations over
// vehicles and classifications.
type InventoryService struct {
	repo   ports.InventoryRepository
	logger zerolog.Logger
}

func NewInventoryService(repo ports.InventoryRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{repo: repo, logger: logger}
}

func (s *InventoryService) Classifications(ctx context.Context) ([]domain.Classification, error) {
	return s.repo.Classifications(ctx)
}

func (s *InventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrClassificationUnknown
	}
	created, err := s.repo.AddClassification(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("classification", created.Name).Int("classification_id", created.ID).Msg("classification added")
	return created, nil
}

func (s *InventoryService) VehiclesByClassification(ctx context.Context, classificationID int) ([]domain.Vehicle, error) {
	return s.repo.VehiclesByClassification(ctx, classificationID)
}

func (s *InventoryService) VehicleByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	return s.repo.VehicleByID(ctx, id)
}

func (s *InventoryService) AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	created, err := s.repo.AddVehicle(ctx, v)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("inv_id", created.ID).Str("make", created.Make).Str("model", created.Model).Msg("vehicle added")
	return created, nil
}

func (s *InventoryService) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	return s.repo.UpdateVehicle(ctx, v)
}

func (s *InventoryService) DeleteVehicle(ctx context.Context, id int) error {
	if err := s.repo.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int("inv_id", id).Msg("vehicle deleted")
	return nil
}
