package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

type eventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) ports.EventRepository {
	return &eventRepo{pool: pool}
}

func (r *eventRepo) CreateBatch(ctx context.Context, events []*domain.DetectionEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO detection_event
			(id, created_at, rule_id, class_name, confidence, x1, y1, x2, y2, captured_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	for _, e := range events {
		batch.Queue(query,
			e.ID, e.CreatedAt, e.RuleID, e.ClassName, e.Confidence,
			e.Box.X1, e.Box.Y1, e.Box.X2, e.Box.Y2, e.CapturedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("create detection events: %w", err)
		}
	}
	return nil
}

func (r *eventRepo) List(ctx context.Context, filter ports.EventListFilter) ([]*domain.DetectionEvent, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.RuleID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("rule_id = $%d", argPos))
		args = append(args, filter.RuleID)
		argPos++
	}
	if filter.ClassName != "" {
		conditions = append(conditions, fmt.Sprintf("class_name = $%d", argPos))
		args = append(args, filter.ClassName)
		argPos++
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, fmt.Sprintf("captured_at >= $%d", argPos))
		args = append(args, filter.Since)
		argPos++
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, fmt.Sprintf("captured_at <= $%d", argPos))
		args = append(args, filter.Until)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM detection_event WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count detection events: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, created_at, rule_id, class_name, confidence,
			   x1, y1, x2, y2, captured_at
		FROM detection_event
		WHERE %s
		ORDER BY captured_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list detection events: %w", err)
	}
	defer rows.Close()

	var events []*domain.DetectionEvent
	for rows.Next() {
		e := &domain.DetectionEvent{}
		err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.RuleID, &e.ClassName, &e.Confidence,
			&e.Box.X1, &e.Box.Y1, &e.Box.X2, &e.Box.Y2, &e.CapturedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan detection event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate detection event rows: %w", err)
	}

	return events, total, nil
}
