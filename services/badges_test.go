package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = gdb.AutoMigrate(
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyActivity{},
		&models.DailyCarbon{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = prev })
	if err := db.SeedBadges(); err != nil {
		t.Fatalf("seed badges: %v", err)
	}
	return gdb
}

func earnedCodes(t *testing.T, gdb *gorm.DB, email string) map[string]bool {
	t.Helper()

	var codes []string
	err := gdb.Model(&models.UserBadge{}).
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_email = ?", email).
		Pluck("badges.code", &codes).Error
	if err != nil {
		t.Fatalf("earned codes: %v", err)
	}

	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

func TestAwardBadgeOnce(t *testing.T) {
	gdb := setupDB(t)

	granted, err := AwardBadge(gdb, "alice@x.com", "STEP_5K")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if !granted {
		t.Fatal("first award should grant")
	}

	granted, err = AwardBadge(gdb, "alice@x.com", "STEP_5K")
	if err != nil {
		t.Fatalf("second award: %v", err)
	}
	if granted {
		t.Error("second award should be a no-op")
	}

	var count int64
	gdb.Model(&models.UserBadge{}).Where("user_email = ?", "alice@x.com").Count(&count)
	if count != 1 {
		t.Errorf("user_badges rows = %d, want 1", count)
	}
}

func TestAwardBadgeUnknownCode(t *testing.T) {
	gdb := setupDB(t)

	granted, err := AwardBadge(gdb, "alice@x.com", "NO_SUCH_BADGE")
	if err != nil {
		t.Fatalf("unknown code must not error: %v", err)
	}
	if granted {
		t.Error("unknown code must not grant")
	}
}

func TestEvaluateActivityBadgesThresholds(t *testing.T) {
	gdb := setupDB(t)

	if err := EvaluateActivityBadges(gdb, "alice@x.com", 10000, 150, 500); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	got := earnedCodes(t, gdb, "alice@x.com")
	for _, code := range []string{"STEP_5K", "STEP_10K", "MINUTES_150", "CAL_500"} {
		if !got[code] {
			t.Errorf("missing %s", code)
		}
	}
	for _, code := range []string{"STEP_20K", "CAL_1000"} {
		if got[code] {
			t.Errorf("awarded %s below threshold", code)
		}
	}
}

func TestEvaluateActivityBadgesBelowAll(t *testing.T) {
	gdb := setupDB(t)

	if err := EvaluateActivityBadges(gdb, "alice@x.com", 4999, 149, 499); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got := earnedCodes(t, gdb, "alice@x.com"); len(got) != 0 {
		t.Errorf("earned %v, want nothing", got)
	}
}

// Carbon badges sum the whole history: three small days cross a threshold no
// single day reaches.
func TestEvaluateCarbonBadgesLifetimeSums(t *testing.T) {
	gdb := setupDB(t)

	days := []models.DailyCarbon{
		{UserEmail: "alice@x.com", Day: "2026-01-01", TotalKm: 20, TotalCO2: 3.2},
		{UserEmail: "alice@x.com", Day: "2026-01-02", TotalKm: 15, TotalCO2: 2.4},
		{UserEmail: "alice@x.com", Day: "2026-01-03", TotalKm: 10, TotalCO2: 1.6},
	}
	for _, d := range days {
		if err := gdb.Create(&d).Error; err != nil {
			t.Fatalf("insert day: %v", err)
		}
	}

	if err := EvaluateCarbonBadges(gdb, "alice@x.com"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	got := earnedCodes(t, gdb, "alice@x.com")
	if !got["CO2_1KG"] || !got["DIST_MARATHON"] {
		t.Errorf("earned %v, want CO2_1KG and DIST_MARATHON from 45 km / 7.2 kg lifetime", got)
	}
	if got["CO2_25KG"] || got["DIST_ANNAPURNA"] {
		t.Errorf("earned %v beyond lifetime totals", got)
	}
}

func TestEvaluateCarbonBadgesIgnoresOtherUsers(t *testing.T) {
	gdb := setupDB(t)

	err := gdb.Create(&models.DailyCarbon{
		UserEmail: "bob@x.com", Day: "2026-01-01", TotalKm: 100, TotalCO2: 16,
	}).Error
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := EvaluateCarbonBadges(gdb, "alice@x.com"); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got := earnedCodes(t, gdb, "alice@x.com"); len(got) != 0 {
		t.Errorf("alice earned %v from bob's rows", got)
	}
}
