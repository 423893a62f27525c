package services

import (
	"errors"

	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Daily activity thresholds. These compare against the values of a single
// day row, not lifetime sums.
var stepBadges = []struct {
	Threshold int
	Code      string
}{
	{5000, "STEP_5K"},
	{10000, "STEP_10K"},
	{20000, "STEP_20K"},
}

var calorieBadges = []struct {
	Threshold int
	Code      string
}{
	{500, "CAL_500"},
	{1000, "CAL_1000"},
}

const minutesBadgeThreshold = 150

// Lifetime carbon thresholds. These compare against cumulative sums across
// every day the user has ever saved: a milestone, not a daily achievement.
var co2Badges = []struct {
	Threshold float64
	Code      string
}{
	{1, "CO2_1KG"},
	{25, "CO2_25KG"},
	{50, "CO2_50KG"},
}

var distanceBadges = []struct {
	Threshold float64
	Code      string
}{
	{42.2, "DIST_MARATHON"},
	{160, "DIST_ANNAPURNA"},
	{446, "DIST_GRANDCANYON"},
	{800, "DIST_CAMINO"},
	{3500, "DIST_APPALACHIAN"},
	{4265, "DIST_PCT"},
	{8850, "DIST_GREATWALL"},
}

// AwardBadge grants a badge to a user once. Re-awarding is a no-op: the
// unique (user_email, badge_id) index backs the check-then-insert, so a
// concurrent duplicate insert degrades to "already earned". Badges are never
// revoked.
func AwardBadge(gdb *gorm.DB, email, code string) (bool, error) {
	var badge models.Badge
	if err := gdb.Where("code = ?", code).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Logger.Warn("badge_code_unknown", zap.String("code", code))
			return false, nil
		}
		return false, err
	}

	entry := models.UserBadge{UserEmail: email, BadgeID: badge.ID}
	result := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if result.Error != nil {
		if utils.IsDuplicateKey(result.Error) {
			return false, nil
		}
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	utils.BadgesAwarded.WithLabelValues(code).Inc()
	utils.Logger.Info("badge_awarded",
		zap.String("email", email),
		zap.String("code", code),
	)
	return true, nil
}

// EvaluateActivityBadges runs after a successful activity save with the
// newly stored per-day values.
func EvaluateActivityBadges(gdb *gorm.DB, email string, steps, minutes, calories int) error {
	for _, b := range stepBadges {
		if steps >= b.Threshold {
			if _, err := AwardBadge(gdb, email, b.Code); err != nil {
				return err
			}
		}
	}

	if minutes >= minutesBadgeThreshold {
		if _, err := AwardBadge(gdb, email, "MINUTES_150"); err != nil {
			return err
		}
	}

	for _, b := range calorieBadges {
		if calories >= b.Threshold {
			if _, err := AwardBadge(gdb, email, b.Code); err != nil {
				return err
			}
		}
	}

	return nil
}

// EvaluateCarbonBadges runs after a successful carbon save. Unlike the
// activity badges it sums total_km and total_co2 across the user's entire
// history before comparing.
func EvaluateCarbonBadges(gdb *gorm.DB, email string) error {
	var totals struct {
		Km  float64
		Co2 float64
	}

	err := gdb.Model(&models.DailyCarbon{}).
		Select("COALESCE(SUM(total_km), 0) AS km, COALESCE(SUM(total_co2), 0) AS co2").
		Where("user_email = ?", email).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	for _, b := range co2Badges {
		if totals.Co2 >= b.Threshold {
			if _, err := AwardBadge(gdb, email, b.Code); err != nil {
				return err
			}
		}
	}

	for _, b := range distanceBadges {
		if totals.Km >= b.Threshold {
			if _, err := AwardBadge(gdb, email, b.Code); err != nil {
				return err
			}
		}
	}

	return nil
}
