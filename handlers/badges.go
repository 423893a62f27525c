package handlers

import (
	"net/http"
	"time"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type badgeView struct {
	ID          uint       `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Icon        string     `json:"icon"`
	EarnedAt    *time.Time `json:"earnedAt"`
}

// ListBadges returns the full static catalog partitioned into earned and
// locked for the caller, with the earn timestamp on earned entries.
func ListBadges(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	gdb := db.DB.WithContext(c.Request.Context())

	var catalog []models.Badge
	if err := gdb.Order("category, id").Find(&catalog).Error; err != nil {
		utils.Logger.Error("badge_catalog_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching badges"})
		return
	}

	var earnedRows []models.UserBadge
	if err := gdb.Where("user_email = ?", user.Email).Find(&earnedRows).Error; err != nil {
		utils.Logger.Error("badge_earned_failed", zap.Error(err), zap.String("email", user.Email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching badges"})
		return
	}

	earnedAt := make(map[uint]time.Time, len(earnedRows))
	for _, row := range earnedRows {
		earnedAt[row.BadgeID] = row.EarnedAt
	}

	earned := []badgeView{}
	locked := []badgeView{}
	for _, b := range catalog {
		view := badgeView{
			ID:          b.ID,
			Code:        b.Code,
			Name:        b.Name,
			Description: b.Description,
			Category:    b.Category,
			Icon:        b.Icon,
		}
		if ts, ok := earnedAt[b.ID]; ok {
			t := ts
			view.EarnedAt = &t
			earned = append(earned, view)
		} else {
			locked = append(locked, view)
		}
	}

	c.JSON(http.StatusOK, gin.H{"earned": earned, "locked": locked})
}
