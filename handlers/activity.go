package handlers

import (
	"net/http"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/services"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetActivity returns the day's manual values plus the user's goal targets.
// The row is created zero-initialized on first read of a day.
func GetActivity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	day := utils.NormalizeDay(c.Query("day"))

	row, err := services.EnsureActivityDay(db.DB.WithContext(c.Request.Context()), user.Email, day)
	if err != nil {
		utils.Logger.Error("activity_day_ensure_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"steps":          row.Steps,
		"distance":       row.DistanceKm,
		"minutes":        row.Minutes,
		"calories":       row.Calories,
		"stepsTarget":    user.StepsGoal,
		"distanceTarget": user.DistanceGoalKm,
		"minutesTarget":  user.MinutesGoal,
		"caloriesTarget": user.CaloriesGoal,
		"day":            day,
	})
}

// UpdateActivity overwrites all four metric fields for the day, then awards
// any per-day badges the new values cross. Not additive: posting twice
// leaves the latest payload, not a sum.
func UpdateActivity(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		Steps    int     `json:"steps"`
		Distance float64 `json:"distance"`
		Minutes  int     `json:"minutes"`
		Calories int     `json:"calories"`
		Day      string  `json:"day"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if input.Steps < 0 || input.Distance < 0 || input.Minutes < 0 || input.Calories < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Values must not be negative."})
		return
	}

	day := utils.NormalizeDay(input.Day)
	gdb := db.DB.WithContext(c.Request.Context())

	if _, err := services.EnsureActivityDay(gdb, user.Email, day); err != nil {
		utils.Logger.Error("activity_day_ensure_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	err := gdb.Model(&models.DailyActivity{}).
		Where("user_email = ? AND day = ?", user.Email, day).
		Updates(map[string]interface{}{
			"steps":       input.Steps,
			"distance_km": input.Distance,
			"minutes":     input.Minutes,
			"calories":    input.Calories,
		}).Error
	if err != nil {
		utils.Logger.Error("activity_update_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := services.EvaluateActivityBadges(gdb, user.Email, input.Steps, input.Minutes, input.Calories); err != nil {
		utils.Logger.Error("activity_badge_eval_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	middleware.InvalidateUserBadges(user.Email)

	utils.Logger.Info("activity_saved",
		zap.String("email", user.Email),
		zap.String("day", day),
		zap.Int("steps", input.Steps),
	)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateGoals overwrites the four goal columns on the user row. Missing
// fields fall back to the stock targets rather than zero.
func UpdateGoals(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		StepsTarget    *int     `json:"stepsTarget"`
		DistanceTarget *float64 `json:"distanceTarget"`
		MinutesTarget  *int     `json:"minutesTarget"`
		CaloriesTarget *int     `json:"caloriesTarget"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	steps := models.DefaultStepsGoal
	if input.StepsTarget != nil {
		steps = *input.StepsTarget
	}
	distance := models.DefaultDistanceGoal
	if input.DistanceTarget != nil {
		distance = *input.DistanceTarget
	}
	minutes := models.DefaultMinutesGoal
	if input.MinutesTarget != nil {
		minutes = *input.MinutesTarget
	}
	calories := models.DefaultCaloriesGoal
	if input.CaloriesTarget != nil {
		calories = *input.CaloriesTarget
	}

	if steps < 0 || distance < 0 || minutes < 0 || calories < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Goals must not be negative."})
		return
	}

	err := db.DB.WithContext(c.Request.Context()).Model(&models.User{}).
		Where("email = ?", user.Email).
		Updates(map[string]interface{}{
			"steps_goal":       steps,
			"distance_goal_km": distance,
			"minutes_goal":     minutes,
			"calories_goal":    calories,
		}).Error
	if err != nil {
		utils.Logger.Error("goals_update_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	utils.Logger.Info("goals_updated", zap.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
