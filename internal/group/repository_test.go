package group

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/openaura/aura-core/internal/infrastructure/database"
)

const testSchema = `
CREATE TABLE player_groups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE player_group_members (
	group_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	sort_order INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (group_id, player_id),
	FOREIGN KEY (group_id) REFERENCES player_groups(id) ON DELETE CASCADE
);
`

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestRepositoryCreateAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cfg := &Config{
		Name:    "Living Room",
		Enabled: true,
		Members: []string{"player-b", "player-a"},
	}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !strings.HasPrefix(cfg.ID, "ugp-") {
		t.Errorf("generated ID = %q, want ugp- prefix", cfg.ID)
	}

	got, err := repo.GetByID(ctx, cfg.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Living Room" || !got.Enabled {
		t.Errorf("got %+v, want name and enabled preserved", got)
	}
	// Member order must survive the round trip.
	if !slices.Equal(got.Members, []string{"player-b", "player-a"}) {
		t.Errorf("members = %v, want configured order [player-b player-a]", got.Members)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not persisted")
	}
}

func TestRepositoryCreateDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cfg := &Config{ID: "ugp-dup", Name: "First", Enabled: true}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &Config{ID: "ugp-dup", Name: "Second", Enabled: true}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrExists) {
		t.Errorf("Create() duplicate error = %v, want ErrExists", err)
	}
}

func TestRepositoryCreateValidation(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Create(ctx, nil); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("Create(nil) error = %v, want ErrInvalidGroup", err)
	}
	if err := repo.Create(ctx, &Config{Name: ""}); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("Create() empty name error = %v, want ErrInvalidGroup", err)
	}
}

func TestRepositoryGetNotFound(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.GetByID(context.Background(), "ugp-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestRepositoryList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, g := range []*Config{
		{ID: "ugp-2", Name: "Zone B", Enabled: true, Members: []string{"p2"}},
		{ID: "ugp-1", Name: "Zone A", Enabled: false, Members: []string{"p1", "p3"}},
	} {
		if err := repo.Create(ctx, g); err != nil {
			t.Fatalf("Create(%s) error = %v", g.ID, err)
		}
	}

	groups, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("List() returned %d groups, want 2", len(groups))
	}
	// Ordered by name.
	if groups[0].Name != "Zone A" || groups[1].Name != "Zone B" {
		t.Errorf("order = [%s %s], want [Zone A Zone B]", groups[0].Name, groups[1].Name)
	}
	if !slices.Equal(groups[0].Members, []string{"p1", "p3"}) {
		t.Errorf("Zone A members = %v, want [p1 p3]", groups[0].Members)
	}
}

func TestRepositoryUpdate(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cfg := &Config{ID: "ugp-upd", Name: "Before", Enabled: true, Members: []string{"p1"}}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cfg.Name = "After"
	cfg.Enabled = false
	cfg.Members = []string{"p2", "p1"}
	if err := repo.Update(ctx, cfg); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "ugp-upd")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "After" || got.Enabled {
		t.Errorf("got %+v, want name After and disabled", got)
	}
	if !slices.Equal(got.Members, []string{"p2", "p1"}) {
		t.Errorf("members = %v, want replaced order [p2 p1]", got.Members)
	}
}

func TestRepositoryUpdateNotFound(t *testing.T) {
	repo := newTestRepository(t)

	cfg := &Config{ID: "ugp-missing", Name: "Ghost", Enabled: true}
	if err := repo.Update(context.Background(), cfg); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cfg := &Config{ID: "ugp-del", Name: "Doomed", Enabled: true, Members: []string{"p1"}}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "ugp-del"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, "ugp-del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "ugp-del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() repeat error = %v, want ErrNotFound", err)
	}
}

func TestRepositorySetMembers(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cfg := &Config{ID: "ugp-mem", Name: "Zone", Enabled: true, Members: []string{"p1"}}
	if err := repo.Create(ctx, cfg); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Duplicates and empties are dropped, first-seen order preserved.
	if err := repo.SetMembers(ctx, "ugp-mem", []string{"p3", "", "p2", "p3"}); err != nil {
		t.Fatalf("SetMembers() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "ugp-mem")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !slices.Equal(got.Members, []string{"p3", "p2"}) {
		t.Errorf("members = %v, want [p3 p2]", got.Members)
	}

	if err := repo.SetMembers(ctx, "", nil); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("SetMembers() empty id error = %v, want ErrInvalidGroup", err)
	}
}
