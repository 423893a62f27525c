package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type friendRow struct {
	FriendEmail string `json:"friend_email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type receivedRequestRow struct {
	RequesterEmail string    `json:"requester_email"`
	CreatedAt      time.Time `json:"created_at"`
}

type sentRequestRow struct {
	RecipientEmail string    `json:"recipient_email"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListFriends returns three disjoint sets: accepted friends (direction
// normalized to the counterpart), inbound pending requests, and outbound
// pending requests.
func ListFriends(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	gdb := db.DB.WithContext(c.Request.Context())
	email := user.Email

	var friends []friendRow
	err := gdb.Raw(`
		SELECT DISTINCT
			CASE WHEN f.user_email = ? THEN f.friend_email ELSE f.user_email END AS friend_email,
			CASE WHEN f.user_email = ? THEN u2.first_name ELSE u1.first_name END AS first_name,
			CASE WHEN f.user_email = ? THEN u2.last_name ELSE u1.last_name END AS last_name
		FROM friendships f
		LEFT JOIN users u1 ON f.user_email = u1.email
		LEFT JOIN users u2 ON f.friend_email = u2.email
		WHERE (f.user_email = ? OR f.friend_email = ?)
		AND f.status = ?`,
		email, email, email, email, email, models.StatusAccepted,
	).Scan(&friends).Error
	if err != nil {
		utils.Logger.Error("friends_list_failed", zap.Error(err), zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving friends data."})
		return
	}

	var received []receivedRequestRow
	err = gdb.Model(&models.Friendship{}).
		Select("user_email AS requester_email, created_at").
		Where("friend_email = ? AND status = ?", email, models.StatusPending).
		Scan(&received).Error
	if err != nil {
		utils.Logger.Error("friends_received_failed", zap.Error(err), zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving friends data."})
		return
	}

	var sent []sentRequestRow
	err = gdb.Model(&models.Friendship{}).
		Select("friend_email AS recipient_email, created_at").
		Where("user_email = ? AND status = ?", email, models.StatusPending).
		Order("created_at DESC").
		Scan(&sent).Error
	if err != nil {
		utils.Logger.Error("friends_sent_failed", zap.Error(err), zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving friends data."})
		return
	}

	// Suppress duplicates by counterpart email, keeping the newest.
	seen := make(map[string]bool, len(sent))
	uniqueSent := sent[:0]
	for _, s := range sent {
		if seen[s.RecipientEmail] {
			continue
		}
		seen[s.RecipientEmail] = true
		uniqueSent = append(uniqueSent, s)
	}

	if friends == nil {
		friends = []friendRow{}
	}
	if received == nil {
		received = []receivedRequestRow{}
	}
	if uniqueSent == nil {
		uniqueSent = []sentRequestRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"friends":          friends,
		"receivedRequests": received,
		"sentRequests":     uniqueSent,
	})
}

// SendFriendRequest creates a pending edge. At most one record may exist per
// unordered pair, any direction, any status.
func SendFriendRequest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		FriendEmail string `json:"friendEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.FriendEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Friend email is required."})
		return
	}

	if input.FriendEmail == user.Email {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot send friend request to yourself."})
		return
	}

	gdb := db.DB.WithContext(c.Request.Context())

	var target models.User
	if err := gdb.Where("email = ?", input.FriendEmail).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		return
	}

	var existing int64
	err := gdb.Model(&models.Friendship{}).
		Where("(user_email = ? AND friend_email = ?) OR (user_email = ? AND friend_email = ?)",
			user.Email, input.FriendEmail, input.FriendEmail, user.Email).
		Count(&existing).Error
	if err != nil {
		utils.Logger.Error("friend_request_check_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending friend request."})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Friendship request already exists or you are already friends."})
		return
	}

	edge := models.Friendship{
		UserEmail:   user.Email,
		FriendEmail: input.FriendEmail,
		RequestedBy: user.Email,
		Status:      models.StatusPending,
	}
	if err := gdb.Create(&edge).Error; err != nil {
		// Concurrent duplicate send: the unique pair index catches what the
		// check-then-act above missed.
		if utils.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "Friendship request already exists or you are already friends."})
			return
		}
		utils.Logger.Error("friend_request_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error sending friend request."})
		return
	}

	utils.Logger.Info("friend_request_sent",
		zap.String("from", user.Email),
		zap.String("to", input.FriendEmail),
	)
	c.JSON(http.StatusCreated, gin.H{"message": "Friend request sent successfully!"})
}

// AcceptFriendRequest flips pending -> accepted, only for the exact
// requester -> recipient direction.
func AcceptFriendRequest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		RequesterEmail string `json:"requesterEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.RequesterEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requester email is required."})
		return
	}

	result := db.DB.WithContext(c.Request.Context()).Model(&models.Friendship{}).
		Where("user_email = ? AND friend_email = ? AND status = ?",
			input.RequesterEmail, user.Email, models.StatusPending).
		Update("status", models.StatusAccepted)
	if result.Error != nil {
		utils.Logger.Error("friend_accept_failed", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error accepting friend request."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Friend request not found."})
		return
	}

	utils.Logger.Info("friend_request_accepted",
		zap.String("requester", input.RequesterEmail),
		zap.String("recipient", user.Email),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted!"})
}

// DeclineFriendRequest deletes an inbound pending edge.
func DeclineFriendRequest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		RequesterEmail string `json:"requesterEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.RequesterEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Requester email is required."})
		return
	}

	result := db.DB.WithContext(c.Request.Context()).
		Where("user_email = ? AND friend_email = ? AND status = ?",
			input.RequesterEmail, user.Email, models.StatusPending).
		Delete(&models.Friendship{})
	if result.Error != nil {
		utils.Logger.Error("friend_decline_failed", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error declining friend request."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Friend request not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request declined."})
}

// CancelFriendRequest deletes the caller's own outbound pending edge.
func CancelFriendRequest(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		FriendEmail string `json:"friendEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.FriendEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Friend email is required."})
		return
	}

	result := db.DB.WithContext(c.Request.Context()).
		Where("user_email = ? AND friend_email = ? AND status = ?",
			user.Email, input.FriendEmail, models.StatusPending).
		Delete(&models.Friendship{})
	if result.Error != nil {
		utils.Logger.Error("friend_cancel_failed", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error cancelling friend request."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Pending friend request not found."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request cancelled successfully."})
}

// RemoveFriend deletes an accepted edge regardless of who requested it.
func RemoveFriend(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	var input struct {
		FriendEmail string `json:"friendEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.FriendEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Friend email is required."})
		return
	}

	result := db.DB.WithContext(c.Request.Context()).
		Where("((user_email = ? AND friend_email = ?) OR (user_email = ? AND friend_email = ?)) AND status = ?",
			user.Email, input.FriendEmail, input.FriendEmail, user.Email, models.StatusAccepted).
		Delete(&models.Friendship{})
	if result.Error != nil {
		utils.Logger.Error("friend_remove_failed", zap.Error(result.Error))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error removing friend."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Friendship not found."})
		return
	}

	utils.Logger.Info("friend_removed",
		zap.String("email", user.Email),
		zap.String("friend", input.FriendEmail),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed successfully."})
}

type searchResult struct {
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	RelationshipStatus string `json:"relationship_status"`
}

// SearchUsers matches email / first / last / full name case-insensitively,
// excluding the caller, and annotates each hit with the relationship state.
// Ranking: exact email, then email prefix, then full-name prefix, then name.
func SearchUsers(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Search query must be at least 2 characters long."})
		return
	}

	lower := strings.ToLower(query)
	contains := "%" + lower + "%"
	prefix := lower + "%"
	email := user.Email

	var results []searchResult
	err := db.DB.WithContext(c.Request.Context()).Raw(`
		SELECT DISTINCT u.email, u.first_name, u.last_name,
			CASE
				WHEN f.status IS NULL THEN 'none'
				WHEN f.status = 'pending' AND f.user_email = ? THEN 'sent'
				WHEN f.status = 'pending' AND f.friend_email = ? THEN 'received'
				WHEN f.status = 'accepted' THEN 'friends'
				ELSE 'none'
			END AS relationship_status
		FROM users u
		LEFT JOIN friendships f ON (
			(f.user_email = ? AND f.friend_email = u.email) OR
			(f.friend_email = ? AND f.user_email = u.email)
		)
		WHERE u.email <> ?
		AND (
			LOWER(u.email) LIKE ? OR
			LOWER(u.first_name) LIKE ? OR
			LOWER(u.last_name) LIKE ? OR
			LOWER(u.first_name || ' ' || u.last_name) LIKE ?
		)
		ORDER BY
			CASE
				WHEN LOWER(u.email) = ? THEN 1
				WHEN LOWER(u.email) LIKE ? THEN 2
				WHEN LOWER(u.first_name || ' ' || u.last_name) LIKE ? THEN 3
				ELSE 4
			END,
			u.first_name, u.last_name
		LIMIT 20`,
		email, email, email, email, email,
		contains, contains, contains, contains,
		lower, prefix, prefix,
	).Scan(&results).Error
	if err != nil {
		utils.Logger.Error("user_search_failed", zap.Error(err), zap.String("query", query))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error searching for users."})
		return
	}

	if results == nil {
		results = []searchResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": results,
		"query": query,
	})
}

// ListUserEmails returns every registered email address.
func ListUserEmails(c *gin.Context) {
	var emails []string
	err := db.DB.WithContext(c.Request.Context()).Model(&models.User{}).
		Pluck("email", &emails).Error
	if err != nil {
		utils.Logger.Error("user_emails_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving email addresses."})
		return
	}

	if emails == nil {
		emails = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"emails": emails})
}
