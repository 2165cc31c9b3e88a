package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maturis/maturis/internal/platform/db"
	"github.com/maturis/maturis/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns all roles ordered by name.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, nom, description, created_at, updated_at FROM roles ORDER BY nom`)
	if err != nil {
		return nil, fmt.Errorf("roles: list: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Nom, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("roles: scan: %w", err)
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, nom, description string) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (nom, description) VALUES ($1, $2)
		 RETURNING id, nom, description, created_at, updated_at`, nom, description).
		Scan(&role.ID, &role.Nom, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return Role{}, fmt.Errorf("roles: create: %w", err)
	}
	return role, nil
}

// UpdateRole updates name and description of an existing role.
func (r *Repository) UpdateRole(ctx context.Context, id int64, nom, description string) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx,
		`UPDATE roles SET nom = $2, description = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, nom, description, created_at, updated_at`, id, nom, description).
		Scan(&role.ID, &role.Nom, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, fmt.Errorf("roles: update %d: %w", id, err)
	}
	return role, nil
}

// ListRolePermissions returns the grant rows of one role, active modules only.
func (r *Repository) ListRolePermissions(ctx context.Context, roleID int64) ([]RolePermission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.code, rp.action, rp.accorde
		FROM role_permissions rp
		JOIN modules m ON m.id = rp.module_id
		WHERE rp.role_id = $1 AND m.actif
		ORDER BY m.code, rp.action`, roleID)
	if err != nil {
		return nil, fmt.Errorf("roles: list permissions of %d: %w", roleID, err)
	}
	defer rows.Close()

	var out []RolePermission
	for rows.Next() {
		var rp RolePermission
		if err := rows.Scan(&rp.Module, &rp.Action, &rp.Accorde); err != nil {
			return nil, fmt.Errorf("roles: scan permission: %w", err)
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

// ReplaceRolePermissions swaps the role's grant set in one transaction, so a
// concurrent permission check never observes a half-written matrix.
func (r *Repository) ReplaceRolePermissions(ctx context.Context, roleID int64, grants []RolePermission) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
			return fmt.Errorf("roles: check role %d: %w", roleID, err)
		}
		if !exists {
			return shared.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return fmt.Errorf("roles: clear permissions of %d: %w", roleID, err)
		}
		for _, g := range grants {
			tag, err := tx.Exec(ctx, `
				INSERT INTO role_permissions (role_id, module_id, action, accorde)
				SELECT $1, m.id, $2, $3 FROM modules m WHERE m.code = $4`,
				roleID, g.Action, g.Accorde, g.Module)
			if err != nil {
				return fmt.Errorf("roles: insert permission %s.%s: %w", g.Module, g.Action, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("roles: unknown module %q: %w", g.Module, shared.ErrNotFound)
			}
		}
		return nil
	})
}
