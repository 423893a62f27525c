package handlers

import (
	"errors"
	"net/http"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/services"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveCarbon upserts the day's travel hours and derived totals, then runs
// the lifetime badge check. Totals are recomputed here from the hours; the
// client's totKm/totCO2 preview values are accepted but never stored.
func SaveCarbon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		Walk   float64 `json:"walk"`
		Run    float64 `json:"run"`
		Cycle  float64 `json:"cycle"`
		Hike   float64 `json:"hike"`
		Swim   float64 `json:"swim"`
		TotKm  float64 `json:"totKm"`
		TotCO2 float64 `json:"totCO2"`
		Day    string  `json:"day"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	hours := services.CarbonHours{
		Walk:  input.Walk,
		Run:   input.Run,
		Cycle: input.Cycle,
		Hike:  input.Hike,
		Swim:  input.Swim,
	}
	if hours.Negative() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Hours must not be negative."})
		return
	}

	totalKm, totalCO2 := services.ComputeCarbonTotals(hours)
	day := utils.NormalizeDay(input.Day)
	gdb := db.DB.WithContext(c.Request.Context())

	row := models.DailyCarbon{
		UserEmail:  user.Email,
		Day:        day,
		WalkHours:  hours.Walk,
		RunHours:   hours.Run,
		CycleHours: hours.Cycle,
		HikeHours:  hours.Hike,
		SwimHours:  hours.Swim,
		TotalKm:    totalKm,
		TotalCO2:   totalCO2,
	}

	err := gdb.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_email"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"walk_hours", "run_hours", "cycle_hours", "hike_hours", "swim_hours",
			"total_km", "total_co2",
		}),
	}).Create(&row).Error
	if err != nil {
		utils.Logger.Error("carbon_save_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error saving carbon data."})
		return
	}

	if err := services.EvaluateCarbonBadges(gdb, user.Email); err != nil {
		utils.Logger.Error("carbon_badge_eval_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error saving carbon data."})
		return
	}

	middleware.InvalidateLeaderboards()
	middleware.InvalidateUserBadges(user.Email)

	utils.Logger.Info("carbon_saved",
		zap.String("email", user.Email),
		zap.String("day", day),
		zap.Float64("total_km", totalKm),
		zap.Float64("total_co2", totalCO2),
	)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Carbon data saved successfully."})
}

// GetCarbon returns the day's stored hours and totals, zero-filled when the
// user never saved that day.
func GetCarbon(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	day := utils.NormalizeDay(c.Query("day"))

	var row models.DailyCarbon
	err := db.DB.WithContext(c.Request.Context()).
		Where("user_email = ? AND day = ?", user.Email, day).
		First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Logger.Error("carbon_fetch_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"walk":     row.WalkHours,
		"run":      row.RunHours,
		"cycle":    row.CycleHours,
		"hike":     row.HikeHours,
		"swim":     row.SwimHours,
		"totalKm":  row.TotalKm,
		"totalCO2": row.TotalCO2,
		"day":      day,
	})
}
