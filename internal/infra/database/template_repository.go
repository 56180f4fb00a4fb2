package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.EmailTemplate) error {
	query := `
		INSERT INTO email_templates (id, owner_id, name, subject, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query, t.ID, t.OwnerID, t.Name, t.Subject, t.Body, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.EmailTemplate, error) {
	query := `
		SELECT id, owner_id, name, subject, body, created_at, updated_at
		FROM email_templates WHERE id = $1 AND owner_id = $2
	`

	var t entity.EmailTemplate
	err := r.DB.QueryRowContext(ctx, query, id, ownerID).Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TemplateRepository) Update(ctx context.Context, t *entity.EmailTemplate) error {
	query := `
		UPDATE email_templates SET name = $3, subject = $4, body = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`

	res, err := r.DB.ExecContext(ctx, query, t.ID, t.OwnerID, t.Name, t.Subject, t.Body, t.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return expectAffected(res)
}

func (r *TemplateRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM email_templates WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return notFound(err)
	}
	return expectAffected(res)
}

func (r *TemplateRepository) List(ctx context.Context, ownerID string) ([]*entity.EmailTemplate, error) {
	query := `
		SELECT id, owner_id, name, subject, body, created_at, updated_at
		FROM email_templates WHERE owner_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []*entity.EmailTemplate{}
	for rows.Next() {
		var t entity.EmailTemplate
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}
