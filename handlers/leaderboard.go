package handlers

import (
	"net/http"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type leaderboardRow struct {
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	WalkHours  float64 `json:"walk_hours"`
	RunHours   float64 `json:"run_hours"`
	CycleHours float64 `json:"cycle_hours"`
	HikeHours  float64 `json:"hike_hours"`
	SwimHours  float64 `json:"swim_hours"`
	TotalKm    float64 `json:"total_km"`
	TotalCO2   float64 `gorm:"column:total_co2" json:"total_co2"`
}

// Leaderboard returns the day's carbon rows for the caller and their
// accepted friends only, never a global ranking. Users with no entry that
// day appear zero-filled. The client re-sorts by whichever metric it likes;
// the server default is total CO₂ descending.
func Leaderboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	day := utils.NormalizeDay(c.Query("day"))
	email := user.Email

	var rows []leaderboardRow
	err := db.DB.WithContext(c.Request.Context()).Raw(`
		SELECT
			u.email,
			u.first_name,
			u.last_name,
			COALESCE(dc.walk_hours, 0)  AS walk_hours,
			COALESCE(dc.run_hours, 0)   AS run_hours,
			COALESCE(dc.cycle_hours, 0) AS cycle_hours,
			COALESCE(dc.hike_hours, 0)  AS hike_hours,
			COALESCE(dc.swim_hours, 0)  AS swim_hours,
			COALESCE(dc.total_km, 0)    AS total_km,
			COALESCE(dc.total_co2, 0)   AS total_co2
		FROM users u
		LEFT JOIN daily_carbon dc
			ON dc.user_email = u.email AND dc.day = ?
		WHERE
			u.email = ?
			OR u.email IN (
				SELECT CASE WHEN f.user_email = ? THEN f.friend_email ELSE f.user_email END
				FROM friendships f
				WHERE (f.user_email = ? OR f.friend_email = ?)
				AND f.status = 'accepted'
			)
		ORDER BY total_co2 DESC`,
		day, email, email, email, email,
	).Scan(&rows).Error
	if err != nil {
		utils.Logger.Error("leaderboard_failed", zap.Error(err), zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching leaderboard."})
		return
	}

	if rows == nil {
		rows = []leaderboardRow{}
	}
	c.JSON(http.StatusOK, rows)
}
