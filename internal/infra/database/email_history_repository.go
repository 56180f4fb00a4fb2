package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const historyColumns = `id, owner_id, lead_id, template_id, to_address, subject, body, status, message_id,
	track_id, opened_at, clicked_at, preview_url, error, created_at, updated_at`

type EmailHistoryRepository struct {
	DB *sql.DB
}

func NewEmailHistoryRepository(db *sql.DB) *EmailHistoryRepository {
	return &EmailHistoryRepository{DB: db}
}

func (r *EmailHistoryRepository) Create(ctx context.Context, h *entity.EmailHistory) error {
	query := `
		INSERT INTO email_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		h.ID,
		h.OwnerID,
		h.LeadID,
		h.TemplateID,
		h.To,
		h.Subject,
		h.Body,
		h.Status,
		h.MessageID,
		h.TrackID,
		h.OpenedAt,
		h.ClickedAt,
		h.PreviewURL,
		h.Error,
		h.CreatedAt,
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert email history: %w", err)
	}
	return nil
}

// Update persists the mutable delivery fields of an existing record.
func (r *EmailHistoryRepository) Update(ctx context.Context, h *entity.EmailHistory) error {
	query := `
		UPDATE email_history SET
			status = $2,
			message_id = $3,
			opened_at = $4,
			clicked_at = $5,
			preview_url = $6,
			error = $7,
			updated_at = $8
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query,
		h.ID,
		h.Status,
		h.MessageID,
		h.OpenedAt,
		h.ClickedAt,
		h.PreviewURL,
		h.Error,
		h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update email history: %w", err)
	}
	return expectAffected(res)
}

func (r *EmailHistoryRepository) FindByTrackID(ctx context.Context, trackID string) (*entity.EmailHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM email_history WHERE track_id = $1`

	h, err := scanHistory(r.DB.QueryRowContext(ctx, query, trackID))
	if err != nil {
		return nil, notFound(err)
	}
	return h, nil
}

func (r *EmailHistoryRepository) List(ctx context.Context, f entity.HistoryFilter) ([]*entity.EmailHistory, int, error) {
	conds := []string{"owner_id = $1"}
	args := []interface{}{f.OwnerID}
	if f.LeadID != "" {
		args = append(args, f.LeadID)
		conds = append(conds, fmt.Sprintf("lead_id::text = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := "WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_history `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count email history: %w", err)
	}

	query := `SELECT ` + historyColumns + ` FROM email_history ` + where + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list email history: %w", err)
	}
	defer rows.Close()

	items := []*entity.EmailHistory{}
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan email history: %w", err)
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}

func (r *EmailHistoryRepository) CountPerDay(ctx context.Context, ownerID string, since time.Time) (map[string]int, error) {
	query := `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM email_history
		WHERE owner_id = $1 AND created_at >= $2
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("count emails per day: %w", err)
	}
	defer rows.Close()

	perDay := map[string]int{}
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, err
		}
		perDay[day] = n
	}
	return perDay, rows.Err()
}

func (r *EmailHistoryRepository) Totals(ctx context.Context, ownerID string) (entity.EmailTotals, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE opened_at IS NOT NULL),
			COUNT(*) FILTER (WHERE status = 'clicked')
		FROM email_history
		WHERE owner_id = $1
	`

	var t entity.EmailTotals
	if err := r.DB.QueryRowContext(ctx, query, ownerID).Scan(&t.Total, &t.Opened, &t.Clicked); err != nil {
		return entity.EmailTotals{}, fmt.Errorf("email totals: %w", err)
	}
	return t, nil
}

func scanHistory(row rowScanner) (*entity.EmailHistory, error) {
	var (
		h          entity.EmailHistory
		leadID     sql.NullString
		templateID sql.NullString
		openedAt   sql.NullTime
		clickedAt  sql.NullTime
	)

	err := row.Scan(
		&h.ID,
		&h.OwnerID,
		&leadID,
		&templateID,
		&h.To,
		&h.Subject,
		&h.Body,
		&h.Status,
		&h.MessageID,
		&h.TrackID,
		&openedAt,
		&clickedAt,
		&h.PreviewURL,
		&h.Error,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if leadID.Valid {
		h.LeadID = &leadID.String
	}
	if templateID.Valid {
		h.TemplateID = &templateID.String
	}
	if openedAt.Valid {
		t := openedAt.Time
		h.OpenedAt = &t
	}
	if clickedAt.Valid {
		t := clickedAt.Time
		h.ClickedAt = &t
	}
	return &h, nil
}
