package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

type alertRepo struct {
	pool *pgxpool.Pool
}

func NewAlertRepository(pool *pgxpool.Pool) ports.AlertRepository {
	return &alertRepo{pool: pool}
}

func (r *alertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alert
			(id, created_at, updated_at, rule_id, source, level, message,
			 chat_id, status, attempts, last_error, sent_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := r.pool.Exec(ctx, query,
		alert.ID, alert.CreatedAt, alert.UpdatedAt, alert.RuleID,
		alert.Source, string(alert.Level), alert.Message,
		alert.ChatID, string(alert.Status), alert.Attempts,
		alert.LastError, alert.SentAt,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

func (r *alertRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	query := `
		SELECT id, created_at, updated_at, rule_id, source, level, message,
			   chat_id, status, attempts, last_error, sent_at
		FROM alert
		WHERE id = $1
	`
	a, err := scanAlert(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, fmt.Errorf("get alert by id: %w", err)
	}
	return a, nil
}

func (r *alertRepo) Update(ctx context.Context, alert *domain.Alert) error {
	query := `
		UPDATE alert
		SET status=$1, attempts=$2, last_error=$3, sent_at=$4, updated_at=NOW()
		WHERE id=$5
	`
	result, err := r.pool.Exec(ctx, query,
		string(alert.Status), alert.Attempts, alert.LastError, alert.SentAt, alert.ID,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}
	return nil
}

func (r *alertRepo) List(ctx context.Context, filter ports.AlertListFilter) ([]*domain.Alert, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Level != "" {
		conditions = append(conditions, fmt.Sprintf("level = $%d", argPos))
		args = append(args, filter.Level)
		argPos++
	}
	if filter.Source != "" {
		conditions = append(conditions, fmt.Sprintf("source = $%d", argPos))
		args = append(args, filter.Source)
		argPos++
	}
	if filter.RuleID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("rule_id = $%d", argPos))
		args = append(args, filter.RuleID)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM alert WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	orderBy := alertOrderClause(filter.SortBy, filter.Order)

	query := fmt.Sprintf(`
		SELECT id, created_at, updated_at, rule_id, source, level, message,
			   chat_id, status, attempts, last_error, sent_at
		FROM alert
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate alert rows: %w", err)
	}

	return alerts, total, nil
}

// alertSortColumns whitelists what sort_by may name; everything else falls
// back to the default ordering so request input never reaches the SQL text.
var alertSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"level":      true,
	"status":     true,
	"source":     true,
	"attempts":   true,
	"sent_at":    true,
}

func alertOrderClause(sortBy, order string) string {
	if !alertSortColumns[sortBy] {
		return "created_at DESC"
	}
	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}
	return sortBy + " " + dir
}

func scanAlert(row pgx.Row) (*domain.Alert, error) {
	a := &domain.Alert{}
	err := row.Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.RuleID,
		&a.Source, &a.Level, &a.Message,
		&a.ChatID, &a.Status, &a.Attempts,
		&a.LastError, &a.SentAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
