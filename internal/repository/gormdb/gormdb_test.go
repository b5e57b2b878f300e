package gormdb

import (
	"errors"
	"reflect"
	"testing"

	"github.com/taskdeck-app/taskdeck/internal/domain"
	"github.com/taskdeck-app/taskdeck/internal/repository"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDBWithDSN("sqlite://:memory:")
	if err != nil {
		t.Fatalf("NewDBWithDSN(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProfileRoundTrip(t *testing.T) {
	repo := NewProfileRepository(testDB(t))

	if _, err := repo.GetProfile(); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("GetProfile() on empty store error = %v, want ErrNotFound", err)
	}

	profile := domain.UserProfile{"name": "ada", "plan": "pro"}
	if err := repo.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := repo.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got["name"] != "ada" || got["plan"] != "pro" {
		t.Errorf("GetProfile() = %v", got)
	}

	// Saving again overwrites the single profile row.
	if err := repo.SaveProfile(domain.UserProfile{"name": "grace"}); err != nil {
		t.Fatalf("SaveProfile() overwrite error = %v", err)
	}
	got, err = repo.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got["name"] != "grace" {
		t.Errorf("profile after overwrite = %v, want name=grace", got)
	}
}

func TestTaskListReplaceAll(t *testing.T) {
	repo := NewTaskListRepository(testDB(t))

	first := domain.TaskList{Groups: []domain.TaskGroup{
		{GroupID: "inbox", Content: "a"},
		{GroupID: "today", Content: "b"},
	}}
	if err := repo.ReplaceAll(first); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	// Replacing drops groups missing from the new list.
	second := domain.TaskList{Groups: []domain.TaskGroup{
		{GroupID: "inbox", Content: "a2"},
	}}
	if err := repo.ReplaceAll(second); err != nil {
		t.Fatalf("ReplaceAll() second error = %v", err)
	}

	got, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("GetAll() = %v, want %v", got, second)
	}
}

func TestUpsertGroupContent(t *testing.T) {
	repo := NewTaskListRepository(testDB(t))

	if err := repo.UpsertGroupContent("inbox", "first"); err != nil {
		t.Fatalf("UpsertGroupContent() insert error = %v", err)
	}
	if err := repo.UpsertGroupContent("inbox", "second"); err != nil {
		t.Fatalf("UpsertGroupContent() update error = %v", err)
	}

	got, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	want := domain.TaskList{Groups: []domain.TaskGroup{{GroupID: "inbox", Content: "second"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetAll() = %v, want %v", got, want)
	}
}

func TestEmptyListClearsStorage(t *testing.T) {
	repo := NewTaskListRepository(testDB(t))

	if err := repo.UpsertGroupContent("inbox", "x"); err != nil {
		t.Fatalf("UpsertGroupContent() error = %v", err)
	}
	if err := repo.ReplaceAll(domain.TaskList{}); err != nil {
		t.Fatalf("ReplaceAll(empty) error = %v", err)
	}

	got, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got.Groups) != 0 {
		t.Errorf("GetAll() = %v, want empty list", got)
	}
}
