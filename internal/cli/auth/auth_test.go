package auth

import (
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store}
}

func TestLoginLogout(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&LoginCmd{Email: "Ada@Example.com"}).Run(ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	user, err := ctx.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser() after login failed: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Email = %q, want normalized address", user.Email)
	}
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Errorf("whoami failed: %v", err)
	}

	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := ctx.CurrentUser(); err == nil {
		t.Error("CurrentUser() succeeded after logout")
	}
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Errorf("second logout failed: %v", err)
	}
	if err := (&WhoamiCmd{}).Run(ctx); err != nil {
		t.Errorf("whoami while signed out failed: %v", err)
	}
}

func TestLoginSameUser(t *testing.T) {
	ctx := setupTestDB(t)

	if err := (&LoginCmd{Email: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	first, _ := ctx.CurrentUser()
	if err := (&LoginCmd{Email: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	second, _ := ctx.CurrentUser()
	if first.ID != second.ID {
		t.Errorf("signing in twice created a second user: %s vs %s", first.ID, second.ID)
	}
}

func TestLoginInvalidEmail(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&LoginCmd{Email: "nobody"}).Run(ctx); err == nil {
		t.Error("login accepted an invalid address")
	}
}
