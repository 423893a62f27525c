package services

import (
	"errors"

	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureActivityDay returns the daily_activity row for (email, day), creating
// a zero-initialized one when absent. A concurrent creator losing the insert
// race lands on the unique (user_email, day) index; the conflict is ignored
// and the winner's row is re-read.
func EnsureActivityDay(gdb *gorm.DB, email, day string) (models.DailyActivity, error) {
	var row models.DailyActivity

	err := gdb.Where("user_email = ? AND day = ?", email, day).First(&row).Error
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return row, err
	}

	fresh := models.DailyActivity{UserEmail: email, Day: day}
	if err := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return row, err
	}

	err = gdb.Where("user_email = ? AND day = ?", email, day).First(&row).Error
	return row, err
}
