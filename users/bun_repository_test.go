package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-publishing/pkg/testsupport"
)

const usersSchema = `CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT,
	role TEXT NOT NULL DEFAULT 'member',
	created_at TIMESTAMP,
	updated_at TIMESTAMP
)`

func newTestBunDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, usersSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM users"); err != nil {
		t.Fatalf("reset users: %v", err)
	}
	return db
}

func newUserRecord(email string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		FullName:  "Account " + email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestBunCreateAndGet(t *testing.T) {
	repo := NewBunRepository(newTestBunDB(t))
	ctx := context.Background()

	record := newUserRecord("a@example.com", RoleEditor)
	if _, err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	fetched, err := repo.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Email != "a@example.com" || fetched.Role != RoleEditor {
		t.Errorf("unexpected record: %+v", fetched)
	}

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != record.ID {
		t.Errorf("expected same record, got %s", byEmail.ID)
	}

	if _, err := repo.Get(ctx, uuid.New()); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestBunCreateDuplicateEmail(t *testing.T) {
	repo := NewBunRepository(newTestBunDB(t))
	ctx := context.Background()

	first := newUserRecord("taken@example.com", RoleMember)
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	duplicate := newUserRecord("taken@example.com", RoleMember)
	if _, err := repo.Create(ctx, duplicate); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBunSaveAndDelete(t *testing.T) {
	repo := NewBunRepository(newTestBunDB(t))
	ctx := context.Background()

	record := newUserRecord("a@example.com", RoleMember)
	if _, err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create: %v", err)
	}

	record.FullName = "Renamed"
	record.Role = RoleEditor
	record.UpdatedAt = time.Now().UTC()
	if _, err := repo.Save(ctx, record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fetched, err := repo.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.FullName != "Renamed" || fetched.Role != RoleEditor {
		t.Errorf("expected updated record, got %+v", fetched)
	}

	ghost := newUserRecord("ghost@example.com", RoleMember)
	if _, err := repo.Save(ctx, ghost); !IsNotFound(err) {
		t.Errorf("expected not found for unknown record, got %v", err)
	}

	if err := repo.Delete(ctx, record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, record.ID); !IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestBunSaveRejectsEmailTakenByOther(t *testing.T) {
	repo := NewBunRepository(newTestBunDB(t))
	ctx := context.Background()

	first := newUserRecord("first@example.com", RoleMember)
	second := newUserRecord("second@example.com", RoleMember)
	if _, err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if _, err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	second.Email = "first@example.com"
	if _, err := repo.Save(ctx, second); !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBunListPage(t *testing.T) {
	repo := NewBunRepository(newTestBunDB(t))
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		record := newUserRecord(email, RoleMember)
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		record.UpdatedAt = record.CreatedAt
		if _, err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create %s: %v", email, err)
		}
	}

	records, total, err := repo.ListPage(ctx, ListOptions{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(records) != 1 || records[0].Email != "c@example.com" {
		t.Errorf("expected last record on page 2, got %+v", records)
	}
}
