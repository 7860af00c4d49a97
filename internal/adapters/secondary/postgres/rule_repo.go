package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vision-alert-service/internal/core/domain"
	"vision-alert-service/internal/core/ports/output"
)

type ruleRepo struct {
	pool *pgxpool.Pool
}

func NewRuleRepository(pool *pgxpool.Pool) ports.RuleRepository {
	return &ruleRepo{pool: pool}
}

const ruleColumns = `
	id, created_at, updated_at, name, slug, enabled, target_class,
	conf_threshold, iou_threshold, min_duration_ms, sampling_duration_ms,
	sleep_duration_ms, cooldown_ms, camera_url, chat_id, last_alert_at
`

func (r *ruleRepo) Create(ctx context.Context, rule *domain.MonitorRule) error {
	query := `
		INSERT INTO monitor_rule
			(id, created_at, updated_at, name, slug, enabled, target_class,
			 conf_threshold, iou_threshold, min_duration_ms, sampling_duration_ms,
			 sleep_duration_ms, cooldown_ms, camera_url, chat_id, last_alert_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`
	_, err := r.pool.Exec(ctx, query,
		rule.ID, rule.CreatedAt, rule.UpdatedAt, rule.Name, rule.Slug,
		rule.Enabled, rule.TargetClass, rule.ConfThreshold, rule.IoUThreshold,
		rule.MinDuration.Milliseconds(), rule.SamplingDuration.Milliseconds(),
		rule.SleepDuration.Milliseconds(), rule.Cooldown.Milliseconds(),
		rule.CameraURL, rule.ChatID, rule.LastAlertAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRuleNameConflict
		}
		return fmt.Errorf("create monitor rule: %w", err)
	}
	return nil
}

func (r *ruleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonitorRule, error) {
	query := fmt.Sprintf("SELECT %s FROM monitor_rule WHERE id = $1", ruleColumns)
	rule, err := scanRule(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("get monitor rule by id: %w", err)
	}
	return rule, nil
}

func (r *ruleRepo) GetBySlug(ctx context.Context, slug string) (*domain.MonitorRule, error) {
	query := fmt.Sprintf("SELECT %s FROM monitor_rule WHERE slug = $1", ruleColumns)
	rule, err := scanRule(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("get monitor rule by slug: %w", err)
	}
	return rule, nil
}

func (r *ruleRepo) Update(ctx context.Context, rule *domain.MonitorRule) error {
	query := `
		UPDATE monitor_rule
		SET name=$1, slug=$2, enabled=$3, target_class=$4, conf_threshold=$5,
			iou_threshold=$6, min_duration_ms=$7, sampling_duration_ms=$8,
			sleep_duration_ms=$9, cooldown_ms=$10, camera_url=$11, chat_id=$12,
			last_alert_at=$13, updated_at=NOW()
		WHERE id=$14
	`
	result, err := r.pool.Exec(ctx, query,
		rule.Name, rule.Slug, rule.Enabled, rule.TargetClass,
		rule.ConfThreshold, rule.IoUThreshold,
		rule.MinDuration.Milliseconds(), rule.SamplingDuration.Milliseconds(),
		rule.SleepDuration.Milliseconds(), rule.Cooldown.Milliseconds(),
		rule.CameraURL, rule.ChatID, rule.LastAlertAt, rule.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRuleNameConflict
		}
		return fmt.Errorf("update monitor rule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *ruleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM monitor_rule WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete monitor rule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *ruleRepo) List(ctx context.Context, enabledOnly bool) ([]*domain.MonitorRule, error) {
	query := fmt.Sprintf("SELECT %s FROM monitor_rule", ruleColumns)
	if enabledOnly {
		query += " WHERE enabled"
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list monitor rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.MonitorRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan monitor rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monitor rule rows: %w", err)
	}

	return rules, nil
}

func scanRule(row pgx.Row) (*domain.MonitorRule, error) {
	rule := &domain.MonitorRule{}
	var minMs, samplingMs, sleepMs, cooldownMs int64

	err := row.Scan(
		&rule.ID, &rule.CreatedAt, &rule.UpdatedAt, &rule.Name, &rule.Slug,
		&rule.Enabled, &rule.TargetClass, &rule.ConfThreshold, &rule.IoUThreshold,
		&minMs, &samplingMs, &sleepMs, &cooldownMs,
		&rule.CameraURL, &rule.ChatID, &rule.LastAlertAt,
	)
	if err != nil {
		return nil, err
	}

	rule.MinDuration = time.Duration(minMs) * time.Millisecond
	rule.SamplingDuration = time.Duration(samplingMs) * time.Millisecond
	rule.SleepDuration = time.Duration(sleepMs) * time.Millisecond
	rule.Cooldown = time.Duration(cooldownMs) * time.Millisecond
	return rule, nil
}
