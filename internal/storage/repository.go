// Package storage is the SQLite implementation of store.Store.
//
// Dates are stored as YYYY-MM-DD text and amounts as decimal text so values
// round-trip exactly. Rows that no longer parse are returned degraded (an
// invalid date or a zero amount) with a warning instead of failing the read.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"paytrack/internal/core"
	"paytrack/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount, category, note FROM transactions WHERE user_id = ? ORDER BY date, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var id, date, amount, category, note string
		if err := rows.Scan(&id, &date, &amount, &category, &note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, core.Transaction{
			ID:       id,
			Date:     parseDate(ctx, "transaction", id, date),
			Amount:   parseAmount(ctx, "transaction", id, amount),
			Category: core.Category(category),
			Note:     note,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	var date, amount, category, note string
	err := r.db.QueryRowContext(ctx,
		`SELECT date, amount, category, note FROM transactions WHERE user_id = ? AND id = ?`, userID, id).
		Scan(&date, &amount, &category, &note)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return core.Transaction{
		ID:       id,
		Date:     parseDate(ctx, "transaction", id, date),
		Amount:   parseAmount(ctx, "transaction", id, amount),
		Category: core.Category(category),
		Note:     note,
	}, nil
}

func (r *SQLiteRepository) UpsertTransaction(ctx context.Context, userID string, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, id, date, amount, category, note)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			date = excluded.date,
			amount = excluded.amount,
			category = excluded.category,
			note = excluded.note,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		userID, tx.ID, tx.Date.String(), tx.Amount.String(), string(tx.Category), tx.Note)
	if err != nil {
		return fmt.Errorf("upsert transaction %s: %w", tx.ID, err)
	}
	slog.DebugContext(ctx, "Transaction saved to SQLite", "user_id", userID, "id", tx.ID, "amount", tx.Amount.String())
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	return r.deleteOne(ctx, `DELETE FROM transactions WHERE user_id = ? AND id = ?`, "transaction", userID, id)
}

func (r *SQLiteRepository) ListRules(ctx context.Context, userID string) ([]core.RecurringRule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount, category, cadence, next_run, last_run
		FROM recurring_rules WHERE user_id = ? ORDER BY next_run, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringRule
	for rows.Next() {
		rule, err := scanRule(ctx, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetRule(ctx context.Context, userID, id string) (core.RecurringRule, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, amount, category, cadence, next_run, last_run
		FROM recurring_rules WHERE user_id = ? AND id = ?`, userID, id)
	rule, err := scanRule(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringRule{}, store.ErrNotFound
	}
	return rule, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(ctx context.Context, s scanner) (core.RecurringRule, error) {
	var id, name, amount, category, cadence, nextRun, lastRun string
	if err := s.Scan(&id, &name, &amount, &category, &cadence, &nextRun, &lastRun); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RecurringRule{}, err
		}
		return core.RecurringRule{}, fmt.Errorf("scan rule: %w", err)
	}
	rule := core.RecurringRule{
		ID:       id,
		Name:     name,
		Amount:   parseAmount(ctx, "rule", id, amount),
		Category: core.Category(category),
		Cadence:  core.Cadence(cadence),
		NextRun:  parseDate(ctx, "rule", id, nextRun),
	}
	if lastRun != "" {
		rule.LastRun = parseDate(ctx, "rule", id, lastRun)
	}
	return rule, nil
}

func (r *SQLiteRepository) UpsertRule(ctx context.Context, userID string, rule core.RecurringRule) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_rules (user_id, id, name, amount, category, cadence, next_run, last_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			category = excluded.category,
			cadence = excluded.cadence,
			next_run = excluded.next_run,
			last_run = excluded.last_run,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		userID, rule.ID, rule.Name, rule.Amount.String(), string(rule.Category), string(rule.Cadence),
		rule.NextRun.String(), rule.LastRun.String())
	if err != nil {
		return fmt.Errorf("upsert rule %s: %w", rule.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRule(ctx context.Context, userID, id string) error {
	return r.deleteOne(ctx, `DELETE FROM recurring_rules WHERE user_id = ? AND id = ?`, "rule", userID, id)
}

func (r *SQLiteRepository) deleteOne(ctx context.Context, query, kind, userID, id string) error {
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetSettings(ctx context.Context, userID string) (core.Settings, error) {
	var anchor, paycheck, limitPeriod, limitsJSON, lastAuto string
	err := r.db.QueryRowContext(ctx, `
		SELECT anchor_start, default_paycheck, limit_period, category_limits, last_auto_generate
		FROM settings WHERE user_id = ?`, userID).
		Scan(&anchor, &paycheck, &limitPeriod, &limitsJSON, &lastAuto)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	s := core.Settings{
		AnchorStart:     parseDate(ctx, "settings", userID, anchor),
		DefaultPaycheck: parseAmount(ctx, "settings", userID, paycheck),
		LimitPeriod:     core.LimitPeriod(limitPeriod),
		CategoryLimits:  map[core.Category]core.Money{},
	}
	if lastAuto != "" {
		s.LastAutoGenerate = parseDate(ctx, "settings", userID, lastAuto)
	}
	if err := json.Unmarshal([]byte(limitsJSON), &s.CategoryLimits); err != nil {
		slog.WarnContext(ctx, "Unreadable category limits, ignoring", "user_id", userID, "error", err)
		s.CategoryLimits = map[core.Category]core.Money{}
	}
	return s, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, userID string, s core.Settings) error {
	limits := s.CategoryLimits
	if limits == nil {
		limits = map[core.Category]core.Money{}
	}
	limitsJSON, err := json.Marshal(limits)
	if err != nil {
		return fmt.Errorf("encode category limits: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, anchor_start, default_paycheck, limit_period, category_limits, last_auto_generate)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			anchor_start = excluded.anchor_start,
			default_paycheck = excluded.default_paycheck,
			limit_period = excluded.limit_period,
			category_limits = excluded.category_limits,
			last_auto_generate = excluded.last_auto_generate,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		userID, s.AnchorStart.String(), s.DefaultPaycheck.String(), string(s.LimitPeriod),
		string(limitsJSON), s.LastAutoGenerate.String())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, userID string) (core.IncomeByPeriod, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period_start, amount FROM income_by_period WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("get income: %w", err)
	}
	defer rows.Close()

	out := core.IncomeByPeriod{}
	for rows.Next() {
		var start, amount string
		if err := rows.Scan(&start, &amount); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		d, err := core.ParseDate(start)
		if err != nil {
			slog.WarnContext(ctx, "Skipping income with unreadable period start", "user_id", userID, "period_start", start)
			continue
		}
		out[d] = parseAmount(ctx, "income", start, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate income: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SetIncome(ctx context.Context, userID string, periodStart core.Date, amount core.Money) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO income_by_period (user_id, period_start, amount) VALUES (?, ?, ?)
		ON CONFLICT (user_id, period_start) DO UPDATE SET amount = excluded.amount`,
		userID, periodStart.String(), amount.String())
	if err != nil {
		return fmt.Errorf("set income %s: %w", periodStart, err)
	}
	return nil
}

func (r *SQLiteRepository) ReplaceIncome(ctx context.Context, userID string, income core.IncomeByPeriod) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM income_by_period WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear income: %w", err)
	}
	for start, amount := range income {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO income_by_period (user_id, period_start, amount) VALUES (?, ?, ?)`,
			userID, start.String(), amount.String()); err != nil {
			return fmt.Errorf("insert income %s: %w", start, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM transactions
		UNION SELECT user_id FROM recurring_rules
		UNION SELECT user_id FROM settings
		UNION SELECT user_id FROM income_by_period
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func parseDate(ctx context.Context, kind, id, raw string) core.Date {
	d, err := core.ParseDate(raw)
	if err != nil {
		slog.WarnContext(ctx, "Unreadable date in stored row", "kind", kind, "id", id, "value", raw)
		return core.Date{}
	}
	return d
}

func parseAmount(ctx context.Context, kind, id, raw string) core.Money {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		slog.WarnContext(ctx, "Unreadable amount in stored row", "kind", kind, "id", id, "value", raw)
		return core.Zero
	}
	return core.NewMoney(d)
}
