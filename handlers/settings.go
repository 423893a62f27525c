package handlers

import (
	"errors"
	"net/http"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSettings returns the stored settings document. Settings are created
// lazily: until the first save the client supplies its own defaults, so a
// never-saved user gets 404.
func GetSettings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var settings models.UserSettings
	err := db.DB.WithContext(c.Request.Context()).
		Where("user_email = ?", user.Email).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No settings found"})
			return
		}
		utils.Logger.Error("settings_fetch_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// SaveSettings upserts the full settings document. Partial updates are not
// supported: omitted fields take the server defaults, including booleans
// (omitted means true, not false).
func SaveSettings(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		Theme                *string  `json:"theme"`
		NotificationsEnabled *bool    `json:"notifications_enabled"`
		EmailNotifications   *bool    `json:"email_notifications"`
		ActivityPrivacy      *string  `json:"activity_privacy"`
		Units                *string  `json:"units"`
		Timezone             *string  `json:"timezone"`
		Language             *string  `json:"language"`
		WeeklyGoalSteps      *int     `json:"weekly_goal_steps"`
		WeeklyGoalDistance   *float64 `json:"weekly_goal_distance"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	settings := models.UserSettings{
		UserEmail:            user.Email,
		Theme:                "light",
		NotificationsEnabled: true,
		EmailNotifications:   true,
		ActivityPrivacy:      "public",
		Units:                "metric",
		Timezone:             "UTC",
		Language:             "en",
		WeeklyGoalSteps:      70000,
		WeeklyGoalDistance:   50.0,
	}

	if input.Theme != nil {
		settings.Theme = *input.Theme
	}
	if input.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *input.NotificationsEnabled
	}
	if input.EmailNotifications != nil {
		settings.EmailNotifications = *input.EmailNotifications
	}
	if input.ActivityPrivacy != nil {
		settings.ActivityPrivacy = *input.ActivityPrivacy
	}
	if input.Units != nil {
		settings.Units = *input.Units
	}
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.Language != nil {
		settings.Language = *input.Language
	}
	if input.WeeklyGoalSteps != nil {
		settings.WeeklyGoalSteps = *input.WeeklyGoalSteps
	}
	if input.WeeklyGoalDistance != nil {
		settings.WeeklyGoalDistance = *input.WeeklyGoalDistance
	}

	if err := middleware.ValidateStruct(settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid settings values."})
		return
	}

	err := db.DB.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"theme", "notifications_enabled", "email_notifications",
			"activity_privacy", "units", "timezone", "language",
			"weekly_goal_steps", "weekly_goal_distance", "updated_at",
		}),
	}).Create(&settings).Error
	if err != nil {
		utils.Logger.Error("settings_save_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error saving settings"})
		return
	}

	utils.Logger.Info("settings_saved", zap.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved successfully"})
}
