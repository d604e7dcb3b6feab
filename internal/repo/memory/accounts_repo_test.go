package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jobdeck/jobdeck/internal/domain/account"
	"github.com/jobdeck/jobdeck/internal/repo/memory"
	"github.com/jobdeck/jobdeck/internal/repo/postgres"
)

func TestAccountsCreateAndLookup(t *testing.T) {
	repo := memory.NewAccountsRepo()

	created, err := repo.Create(context.Background(), "ada@example.com", "hashed", "Ada Lovelace", account.RoleUser)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}

	byEmail, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}

	byID, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if byEmail.ID != created.ID || byID.Email != "ada@example.com" {
		t.Fatalf("lookups disagree: %+v vs %+v", byEmail, byID)
	}
}

func TestAccountsDuplicateEmail(t *testing.T) {
	repo := memory.NewAccountsRepo()

	if _, err := repo.Create(context.Background(), "ada@example.com", "hashed", "Ada Lovelace", account.RoleUser); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := repo.Create(context.Background(), "ada@example.com", "other", "Ada L.", account.RoleUser)

	if !errors.Is(err, postgres.ErrEmailTaken) {
		t.Fatalf("got err %v, want ErrEmailTaken", err)
	}
}

func TestAccountsUnknownLookups(t *testing.T) {
	repo := memory.NewAccountsRepo()

	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("GetByEmail: got err %v, want ErrNotFound", err)
	}

	if _, err := repo.GetByID(context.Background(), "no-such-id"); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("GetByID: got err %v, want ErrNotFound", err)
	}
}
