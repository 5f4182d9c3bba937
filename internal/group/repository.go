package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines persistence operations for group definitions.
type Repository interface {
	// Create inserts a new group with its member list.
	Create(ctx context.Context, cfg *Config) error
	// GetByID retrieves a group, members included, by ID.
	GetByID(ctx context.Context, id string) (*Config, error)
	// List retrieves all groups with their member lists.
	List(ctx context.Context) ([]Config, error)
	// Update modifies a group's name, enabled flag and member list.
	Update(ctx context.Context, cfg *Config) error
	// Delete removes a group and its member rows.
	Delete(ctx context.Context, id string) error
	// SetMembers replaces a group's ordered member list.
	SetMembers(ctx context.Context, groupID string, playerIDs []string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed group repository.
//
// Security: all queries are parameterised.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new group with its member list.
//
// Generates an ID when none is set. Returns ErrExists on an ID conflict
// and ErrInvalidGroup when validation fails.
func (r *SQLiteRepository) Create(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidGroup)
	}
	if cfg.ID == "" {
		cfg.ID = GenerateID()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO player_groups (id, name, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		cfg.ID,
		cfg.Name,
		boolToInt(cfg.Enabled),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", ErrExists, cfg.ID)
		}
		return fmt.Errorf("inserting group: %w", err)
	}

	if err := insertMembers(ctx, tx, cfg.ID, cfg.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a group, members included, by ID.
// Returns ErrNotFound when the group does not exist.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Config, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, enabled, created_at, updated_at
		FROM player_groups WHERE id = ?`,
		id,
	)

	cfg, err := scanGroupRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("querying group: %w", err)
	}

	cfg.Members, err = r.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// List retrieves all groups with their member lists, ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Config, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, enabled, created_at, updated_at
		FROM player_groups ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []Config
	for rows.Next() {
		cfg, err := scanGroupRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	for i := range groups {
		groups[i].Members, err = r.memberIDs(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// Update modifies a group's name, enabled flag and member list.
// Returns ErrNotFound when the group does not exist.
func (r *SQLiteRepository) Update(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidGroup)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	result, err := tx.ExecContext(ctx,
		`UPDATE player_groups SET name = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		cfg.Name,
		boolToInt(cfg.Enabled),
		now.Format(time.RFC3339),
		cfg.ID,
	)
	if err != nil {
		return fmt.Errorf("updating group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, cfg.ID)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM player_group_members WHERE group_id = ?", cfg.ID,
	); err != nil {
		return fmt.Errorf("clearing group members: %w", err)
	}
	if err := insertMembers(ctx, tx, cfg.ID, cfg.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	cfg.UpdatedAt = now
	return nil
}

// Delete removes a group and its member rows.
// Returns ErrNotFound when the group does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM player_group_members WHERE group_id = ?", id,
	); err != nil {
		return fmt.Errorf("deleting group members: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM player_groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// SetMembers replaces a group's ordered member list in one transaction.
func (r *SQLiteRepository) SetMembers(ctx context.Context, groupID string, playerIDs []string) error {
	if groupID == "" {
		return fmt.Errorf("%w: group id is required", ErrInvalidGroup)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM player_group_members WHERE group_id = ?", groupID,
	); err != nil {
		return fmt.Errorf("clearing group members: %w", err)
	}
	if err := insertMembers(ctx, tx, groupID, playerIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// memberIDs returns a group's member IDs ordered by configured priority.
func (r *SQLiteRepository) memberIDs(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id FROM player_group_members
		WHERE group_id = ? ORDER BY sort_order`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying group members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning group member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group members: %w", err)
	}
	return ids, nil
}

// insertMembers writes the ordered member rows for a group.
// Duplicate and empty IDs are dropped, preserving first-seen order.
func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, playerIDs []string) error {
	unique := dedupeOrdered(playerIDs)
	if len(unique) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO player_group_members (group_id, player_id, sort_order) VALUES (?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing member insert: %w", err)
	}
	defer stmt.Close()

	for i, playerID := range unique {
		if _, err := stmt.ExecContext(ctx, groupID, playerID, i); err != nil {
			return fmt.Errorf("inserting group member: %w", err)
		}
	}
	return nil
}

// scanGroupRow scans a group from a row scanner.
func scanGroupRow(scanner interface{ Scan(dest ...any) error }) (*Config, error) {
	var cfg Config
	var enabled int
	var createdAt, updatedAt string

	if err := scanner.Scan(&cfg.ID, &cfg.Name, &enabled, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	cfg.Enabled = enabled != 0

	var err error
	cfg.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	cfg.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &cfg, nil
}

// boolToInt converts a bool to the 0/1 integer form stored in SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueConstraintError reports whether err is a SQLite unique
// constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// dedupeOrdered removes duplicate and empty values while preserving order.
func dedupeOrdered(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	return unique
}
