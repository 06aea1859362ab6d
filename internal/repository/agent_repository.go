package repository

import (
	"context"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/db"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

type AgentRepository struct {
	DB *db.Postgres
}

// ListActive returns the roster in display order. A NULL active flag counts as active.
func (r AgentRepository) ListActive(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT agent_name, role, active
		FROM bdc_agents
		WHERE active IS NOT FALSE
		ORDER BY agent_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Agent
	for rows.Next() {
		var a domain.Agent
		var role pgtype.Text
		var active pgtype.Bool
		if err := rows.Scan(&a.Name, &role, &active); err != nil {
			return nil, err
		}
		a.Role = domain.ParseRole(role.String)
		a.Active = !active.Valid || active.Bool
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	domain.SortRoster(items)
	return items, nil
}
