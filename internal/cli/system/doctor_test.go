package system

import (
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/goaltrack/internal/cli"
	"github.com/julianstephens/goaltrack/internal/models"
	"github.com/julianstephens/goaltrack/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *sqlite.Store) {
	t.Helper()
	gokeyring.MockInit()

	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &cli.Context{Store: store, ConfigDir: dir}, store
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)

	// missing backups, API key and server are warnings only
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store := setupTestDoctorDB(t)

	db := store.GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx, store := setupTestDoctorDB(t)

	if _, err := store.GetDB().Exec("UPDATE schema_version SET version = 0"); err != nil {
		t.Fatalf("failed to reset schema version: %v", err)
	}
	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("expected pending migrations to be reported")
	}
}

func TestCheckUserSettings_Invalid(t *testing.T) {
	ctx, store := setupTestDoctorDB(t)

	bad := models.UserSettings{Owner: "u1", EmailTime: "25:99", Timezone: "Local", Email: "a@example.com"}
	if err := store.UpsertUserSettings(bad); err != nil {
		t.Fatal(err)
	}
	if err := checkUserSettings(ctx); err == nil {
		t.Error("expected invalid reminder time to be reported")
	}
}

func TestCheckGoalOwners_Orphaned(t *testing.T) {
	ctx, store := setupTestDoctorDB(t)

	if err := store.AddGoal(models.Goal{ID: "g1", Owner: "ghost", Text: "x", Type: models.GoalDaily, Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := checkGoalOwners(ctx); err == nil {
		t.Error("expected an orphaned goal owner to be reported")
	}
}

func TestCheckBackupsPresent(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)

	if err := checkBackupsPresent(ctx); err == nil {
		t.Error("expected a warning with no backups")
	}
	ctx.PerformAutomaticBackup()
	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("backups present but check failed: %v", err)
	}
}
