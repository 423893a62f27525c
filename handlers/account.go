package handlers

import (
	"net/http"

	"github.com/Power-Sh3ll/CIS440-Spectra/db"
	"github.com/Power-Sh3ll/CIS440-Spectra/middleware"
	"github.com/Power-Sh3ll/CIS440-Spectra/models"
	"github.com/Power-Sh3ll/CIS440-Spectra/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func CreateAccount(c *gin.Context) {
	var input struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		DateOfBirth string `json:"dateOfBirth"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Logger.Error("password_hash_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating account."})
		return
	}

	user := models.User{
		Email:          input.Email,
		PasswordHash:   hashed,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		DateOfBirth:    input.DateOfBirth,
		StepsGoal:      models.DefaultStepsGoal,
		DistanceGoalKm: models.DefaultDistanceGoal,
		MinutesGoal:    models.DefaultMinutesGoal,
		CaloriesGoal:   models.DefaultCaloriesGoal,
	}

	if err := db.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists."})
			return
		}
		utils.Logger.Error("account_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error creating account."})
		return
	}

	utils.Logger.Info("account_created", zap.String("email", user.Email))
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully!"})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	var user models.User
	if err := db.DB.WithContext(c.Request.Context()).Where("email = ?", input.Email).First(&user).Error; err != nil {
		// Same message as a wrong password: don't reveal which was wrong.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password."})
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		utils.Logger.Warn("login_incorrect_password", zap.String("email", input.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password."})
		return
	}

	token, err := utils.GenerateToken(user.Email)
	if err != nil {
		utils.Logger.Error("token_generation_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in."})
		return
	}

	utils.Logger.Info("user_logged_in", zap.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":       user.Email,
		"firstName":   user.FirstName,
		"lastName":    user.LastName,
		"dateOfBirth": user.DateOfBirth,
	})
}
