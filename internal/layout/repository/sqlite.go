package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"restaurant-floor/internal/floorplan/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("layout not found")

// schema совпадает с migrations/001_init_layouts.sql; используется, когда путь к миграции не задан.
const schema = `
CREATE TABLE IF NOT EXISTS layouts (
    id            TEXT PRIMARY KEY,
    restaurant_id TEXT NOT NULL,
    name          TEXT NOT NULL,
    is_active     INTEGER NOT NULL DEFAULT 0,
    document      TEXT NOT NULL,
    created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_layouts_restaurant ON layouts (restaurant_id);
`

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Summary строка списка планов без самого документа.
type Summary struct {
	ID           string `json:"id"`
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	UpdatedAt    string `json:"updatedAt"`
}

// Init применяет миграцию из файла (или встроенную схему при пустом пути).
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) List(ctx context.Context, restaurantID string) ([]Summary, error) {
	query := `
        SELECT id, restaurant_id, name, is_active, updated_at
        FROM layouts`
	var args []any
	if restaurantID != "" {
		query += ` WHERE restaurant_id = ?`
		args = append(args, restaurantID)
	}
	query += ` ORDER BY restaurant_id, name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.RestaurantID, &s.Name, &s.IsActive, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get загружает документ и нормализует его на входе в движок.
func (r *Repository) Get(ctx context.Context, id string) (*models.GridLayout, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT document, is_active
        FROM layouts
        WHERE id = ?
    `, id)

	var doc string
	var active bool
	if err := row.Scan(&doc, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var l models.GridLayout
	if err := json.Unmarshal([]byte(doc), &l); err != nil {
		return nil, fmt.Errorf("decode layout %s: %w", id, err)
	}
	l.ID = id
	l.IsActive = active
	models.Normalize(&l)
	return &l, nil
}

// Create сохраняет новый документ. Пустой ID заменяется на uuid.
// Активный документ снимает флаг с остальных планов ресторана.
func (r *Repository) Create(ctx context.Context, l *models.GridLayout) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if l.IsActive {
		if _, err := tx.ExecContext(ctx, `UPDATE layouts SET is_active = 0 WHERE restaurant_id = ?`, l.RestaurantID); err != nil {
			return fmt.Errorf("clear active: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO layouts (id, restaurant_id, name, is_active, document)
        VALUES (?, ?, ?, ?, ?)
    `, l.ID, l.RestaurantID, l.Name, l.IsActive, string(doc)); err != nil {
		return fmt.Errorf("insert layout: %w", err)
	}
	return tx.Commit()
}

// Save перезаписывает документ целиком (последняя запись побеждает).
// Флаг активности меняется только через SetActive.
func (r *Repository) Save(ctx context.Context, l *models.GridLayout) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE layouts
        SET restaurant_id = ?, name = ?, document = ?, updated_at = CURRENT_TIMESTAMP
        WHERE id = ?
    `, l.RestaurantID, l.Name, string(doc), l.ID)
	if err != nil {
		return fmt.Errorf("update layout: %w", err)
	}
	return expectOne(res)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	return expectOne(res)
}

// SetActive делает план активным, у остальных планов того же ресторана флаг снимается.
func (r *Repository) SetActive(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var restaurantID string
	err = tx.QueryRowContext(ctx, `SELECT restaurant_id FROM layouts WHERE id = ?`, id).Scan(&restaurantID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
        UPDATE layouts
        SET is_active = CASE WHEN id = ? THEN 1 ELSE 0 END
        WHERE restaurant_id = ?
    `, id, restaurantID); err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return tx.Commit()
}

// Active активный план ресторана.
func (r *Repository) Active(ctx context.Context, restaurantID string) (*models.GridLayout, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
        SELECT id FROM layouts WHERE restaurant_id = ? AND is_active = 1
    `, restaurantID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	sqlText := schema
	if migrationsPath != "" {
		data, err := os.ReadFile(migrationsPath)
		if err != nil {
			return fmt.Errorf("read migration: %w", err)
		}
		sqlText = string(data)
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
