package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const leadColumns = `id, owner_id, name, company, email, source, status, notes, last_email_sent_at, created_at, updated_at`

var leadSortColumns = map[string]string{
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"name":            "name",
	"company":         "company",
	"status":          "status",
	"source":          "source",
	"lastEmailSentAt": "last_email_sent_at",
}

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.OwnerID,
		lead.Name,
		nullString(lead.Company),
		lead.Email,
		lead.Source,
		lead.Status,
		nullString(lead.Notes),
		lead.LastEmailSentAt,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND owner_id = $2`

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		return nil, notFound(err)
	}
	return lead, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			name = $3,
			company = $4,
			email = $5,
			source = $6,
			status = $7,
			notes = $8,
			last_email_sent_at = $9,
			updated_at = $10
		WHERE id = $1 AND owner_id = $2
	`

	res, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.OwnerID,
		lead.Name,
		nullString(lead.Company),
		lead.Email,
		lead.Source,
		lead.Status,
		nullString(lead.Notes),
		lead.LastEmailSentAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return notFound(err)
	}
	return expectAffected(res)
}

func (r *LeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return notFound(err)
	}
	return expectAffected(res)
}

func (r *LeadRepository) TouchLastEmailSent(ctx context.Context, ownerID, id string, at time.Time) error {
	query := `UPDATE leads SET last_email_sent_at = $3, updated_at = $3 WHERE id = $1 AND owner_id = $2`

	res, err := r.DB.ExecContext(ctx, query, id, ownerID, at)
	if err != nil {
		return notFound(err)
	}
	return expectAffected(res)
}

func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, int, error) {
	where, args := leadWhere(f)

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := `SELECT ` + leadColumns + ` FROM leads ` + where + ` ORDER BY ` + leadOrder(f.SortBy, f.SortOrder)
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	return leads, total, rows.Err()
}

func (r *LeadRepository) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads WHERE owner_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func leadWhere(f entity.LeadFilter) (string, []interface{}) {
	conds := []string{"owner_id = $1"}
	args := []interface{}{f.OwnerID}

	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if len(f.IDs) > 0 {
		add("id::text = ANY($%d)", pq.Array(f.IDs))
	}
	if len(f.Statuses) > 0 {
		add("status = ANY($%d)", pq.Array(f.Statuses))
	}
	if len(f.Sources) > 0 {
		add("source = ANY($%d)", pq.Array(f.Sources))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		fields := []string{"name", "company", "email"}
		if f.SearchNotes {
			fields = append(fields, "notes")
		}
		parts := make([]string, len(fields))
		for i, field := range fields {
			parts[i] = fmt.Sprintf("COALESCE(%s, '') ILIKE $%d", field, n)
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}
	if f.LastEmailBefore != nil {
		add("last_email_sent_at <= $%d", *f.LastEmailBefore)
	}
	if f.LastEmailAfter != nil {
		add("last_email_sent_at >= $%d", *f.LastEmailAfter)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func leadOrder(sortBy, sortOrder string) string {
	col, ok := leadSortColumns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, id", col, dir)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l       entity.Lead
		company sql.NullString
		notes   sql.NullString
		lastAt  sql.NullTime
	)

	err := row.Scan(
		&l.ID,
		&l.OwnerID,
		&l.Name,
		&company,
		&l.Email,
		&l.Source,
		&l.Status,
		&notes,
		&lastAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Company = company.String
	l.Notes = notes.String
	if lastAt.Valid {
		t := lastAt.Time
		l.LastEmailSentAt = &t
	}
	return &l, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
