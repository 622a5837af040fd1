package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/csemotors/dealership/internal/core/domain"
)

type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Classifications(ctx context.Context) ([]domain.Classification, error) {
	const q = `
SELECT classification_id, classification_name
FROM classification
ORDER BY classification_name`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Classification
	for rows.Next() {
		var c domain.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate classifications: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	const q = `
INSERT INTO classification (classification_name)
VALUES ($1)
RETURNING classification_id, classification_name`

	c := &domain.Classification{}
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&c.ID, &c.Name); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrClassificationExists
		}
		return nil, fmt.Errorf("insert classification: %w", err)
	}
	return c, nil
}

func (r *InventoryRepository) VehiclesByClassification(ctx context.Context, classificationID int) ([]domain.Vehicle, error) {
	const q = `
SELECT i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
       i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
       i.classification_id, c.classification_name
FROM inventory AS i
JOIN classification AS c ON i.classification_id = c.classification_id
WHERE i.classification_id = $1
ORDER BY i.inv_make, i.inv_model`

	rows, err := r.db.QueryContext(ctx, q, classificationID)
	if err != nil {
		return nil, fmt.Errorf("query vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.Description,
			&v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color,
			&v.ClassificationID, &v.ClassificationName,
		); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}
	return out, nil
}

func (r *InventoryRepository) VehicleByID(ctx context.Context, id int) (*domain.Vehicle, error) {
	const q = `
SELECT inv_id, inv_make, inv_model, inv_year, inv_description,
       inv_image, inv_thumbnail, inv_price, inv_miles, inv_color, classification_id
FROM inventory
WHERE inv_id = $1`

	v := &domain.Vehicle{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.Description,
		&v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color, &v.ClassificationID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return v, nil
}

func (r *InventoryRepository) AddVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	const q = `
INSERT INTO inventory (inv_make, inv_model, inv_year, inv_description,
                       inv_image, inv_thumbnail, inv_price, inv_miles, inv_color, classification_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING inv_id`

	created := *v
	err := r.db.QueryRowContext(ctx, q,
		v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color, v.ClassificationID,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return &created, nil
}

func (r *InventoryRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	const q = `
UPDATE inventory
SET inv_make = $2, inv_model = $3, inv_year = $4, inv_description = $5,
    inv_image = $6, inv_thumbnail = $7, inv_price = $8, inv_miles = $9,
    inv_color = $10, classification_id = $11
WHERE inv_id = $1
RETURNING inv_id`

	updated := *v
	err := r.db.QueryRowContext(ctx, q,
		v.ID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color, v.ClassificationID,
	).Scan(&updated.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return &updated, nil
}

func (r *InventoryRepository) DeleteVehicle(ctx context.Context, id int) error {
	const q = `DELETE FROM inventory WHERE inv_id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if n == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}
