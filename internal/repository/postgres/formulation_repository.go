// backend-go/internal/repository/postgres/formulation_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/repository"
)

type formulationRepository struct {
	db *DB
}

func NewFormulationRepository(db *DB) *formulationRepository {
	return &formulationRepository{db: db}
}

func (r *formulationRepository) Create(ctx context.Context, f *domain.Formulation) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO formulations (
				id, name, description, status, yield_unit, base_yield,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		if _, err := tx.ExecContext(ctx, query,
			f.ID, f.Name, f.Description, f.Status, f.YieldUnit, f.BaseYield,
			f.CreatedAt, f.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert formulation: %w", err)
		}

		ingQuery := `
			INSERT INTO ingredients (
				id, formulation_id, name, percentage, function, supplier,
				cost_per_kg, nutrients
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		stmt, err := tx.PrepareContext(ctx, ingQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare ingredient statement: %w", err)
		}
		defer stmt.Close()

		for i := range f.Ingredients {
			ing := &f.Ingredients[i]
			if ing.ID == "" {
				ing.ID = uuid.NewString()
			}
			nutrients, err := json.Marshal(ing.Nutrients)
			if err != nil {
				return fmt.Errorf("failed to encode nutrients for %s: %w", ing.Name, err)
			}
			if _, err := stmt.ExecContext(ctx,
				ing.ID, f.ID, ing.Name, ing.Percentage, ing.Function,
				ing.Supplier, ing.CostPerKg, nutrients,
			); err != nil {
				return fmt.Errorf("failed to insert ingredient %s: %w", ing.Name, err)
			}
		}

		return nil
	})
}

func (r *formulationRepository) GetByID(ctx context.Context, id string) (*domain.Formulation, error) {
	query := `
		SELECT id, name, description, status, yield_unit, base_yield,
		       created_at, updated_at
		FROM formulations
		WHERE id = $1
	`
	var f domain.Formulation
	if err := sqlx.GetContext(ctx, r.db, &f, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get formulation: %w", err)
	}

	ingredients, err := r.getIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Ingredients = ingredients

	return &f, nil
}

type ingredientRow struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Percentage float64 `db:"percentage"`
	Function   string  `db:"function"`
	Supplier   string  `db:"supplier"`
	CostPerKg  float64 `db:"cost_per_kg"`
	Nutrients  []byte  `db:"nutrients"`
}

func (r *formulationRepository) getIngredients(ctx context.Context, formulationID string) ([]domain.Ingredient, error) {
	query := `
		SELECT id, name, percentage, function, supplier, cost_per_kg, nutrients
		FROM ingredients
		WHERE formulation_id = $1
		ORDER BY percentage DESC, name
	`
	var rows []ingredientRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, formulationID); err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}

	ingredients := make([]domain.Ingredient, 0, len(rows))
	for _, row := range rows {
		ing := domain.Ingredient{
			ID:         row.ID,
			Name:       row.Name,
			Percentage: row.Percentage,
			Function:   row.Function,
			Supplier:   row.Supplier,
			CostPerKg:  row.CostPerKg,
		}
		if len(row.Nutrients) > 0 {
			if err := json.Unmarshal(row.Nutrients, &ing.Nutrients); err != nil {
				return nil, fmt.Errorf("failed to decode nutrients for %s: %w", row.Name, err)
			}
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, nil
}

func (r *formulationRepository) List(ctx context.Context, filter domain.FormulationFilter) ([]*domain.Formulation, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	where := "WHERE 1=1"
	args := []any{}
	argPos := 1
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM formulations " + where
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count formulations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, status, yield_unit, base_yield,
		       created_at, updated_at
		FROM formulations
		%s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	var formulations []*domain.Formulation
	if err := sqlx.SelectContext(ctx, r.db, &formulations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list formulations: %w", err)
	}

	for _, f := range formulations {
		ingredients, err := r.getIngredients(ctx, f.ID)
		if err != nil {
			return nil, 0, err
		}
		f.Ingredients = ingredients
	}

	return formulations, total, nil
}

func (r *formulationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredients WHERE formulation_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM boms WHERE formulation_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete BOM: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM formulations WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete formulation: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

type bomRow struct {
	ID            string `db:"id"`
	FormulationID string `db:"formulation_id"`
	Name          string `db:"name"`
	Process       []byte `db:"process"`
}

func (r *formulationRepository) GetBOM(ctx context.Context, formulationID string) (*domain.BillOfMaterials, error) {
	query := `
		SELECT id, formulation_id, name, process
		FROM boms
		WHERE formulation_id = $1
	`
	var row bomRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, formulationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get BOM: %w", err)
	}

	bom := domain.BillOfMaterials{
		ID:            row.ID,
		FormulationID: row.FormulationID,
		Name:          row.Name,
	}
	if len(row.Process) > 0 {
		if err := json.Unmarshal(row.Process, &bom.Process); err != nil {
			return nil, fmt.Errorf("failed to decode BOM process: %w", err)
		}
	}
	return &bom, nil
}

func (r *formulationRepository) SaveBOM(ctx context.Context, bom *domain.BillOfMaterials) error {
	if bom.ID == "" {
		bom.ID = uuid.NewString()
	}
	process, err := json.Marshal(bom.Process)
	if err != nil {
		return fmt.Errorf("failed to encode BOM process: %w", err)
	}

	query := `
		INSERT INTO boms (id, formulation_id, name, process, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (formulation_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			process = EXCLUDED.process,
			updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, bom.ID, bom.FormulationID, bom.Name, process); err != nil {
		return fmt.Errorf("failed to save BOM: %w", err)
	}
	return nil
}
