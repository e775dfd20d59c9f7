package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/krishisathi/agrisetu-api/initializers"
	"github.com/krishisathi/agrisetu-api/models"
	"github.com/krishisathi/agrisetu-api/utils"
)

const (
	bcryptCost = 10

	refreshCookieName = "refreshToken"

	msgInvalidInput        = "invalid input"
	msgEmailTaken          = "Email already registered"
	msgInvalidCredentials  = "Invalid credentials"
	msgInternalServerError = "Internal server error"
	msgNotAuthenticated    = "Not authenticated"
	msgInvalidRefreshToken = "Invalid refresh token"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", email).First(&user)
	return user, result.Error
}

// sendTokens issues the access/refresh pair: the access token in the JSON
// body, the refresh token in an http-only same-site-strict cookie.
func sendTokens(ctx *gin.Context, user models.User, status int) {
	accessToken, err := utils.GenerateAccessToken(user)
	if err != nil {
		initializers.Log.Errorw("Access token generation failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user)
	if err != nil {
		initializers.Log.Errorw("Refresh token generation failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	secure := os.Getenv("APP_ENV") == "production"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, refreshToken, int(utils.RefreshTokenTTL.Seconds()), "/", "", secure, true)

	sendJSONResponse(ctx, status, gin.H{
		"token": accessToken,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Register creates a new user account and logs it in.
func Register(ctx *gin.Context) {
	var registerData models.RegisterData
	if err := ctx.ShouldBindJSON(&registerData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if _, err := findUserByEmail(registerData.Email); err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgEmailTaken)
		return
	}

	hashedPassword, err := hashPassword(registerData.Password)
	if err != nil {
		initializers.Log.Errorw("Password hashing failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	user := models.User{
		Name:     registerData.Name,
		Email:    registerData.Email,
		Password: hashedPassword,
		Role:     "user",
	}
	if result := initializers.DB.Create(&user); result.Error != nil {
		initializers.Log.Errorw("User creation failed", "error", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendTokens(ctx, user, http.StatusCreated)
}

// Login authenticates by email and password.
func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(loginData.Email)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	sendTokens(ctx, user, http.StatusOK)
}

// RefreshToken exchanges a valid refresh cookie for a fresh access token.
func RefreshToken(ctx *gin.Context) {
	refreshToken, err := ctx.Cookie(refreshCookieName)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidRefreshToken)
		return
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidRefreshToken)
		return
	}

	var user models.User
	if result := initializers.DB.First(&user, uint(userID)); result.Error != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidRefreshToken)
		return
	}

	accessToken, err := utils.GenerateAccessToken(user)
	if err != nil {
		initializers.Log.Errorw("Access token generation failed", "error", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": accessToken})
}

// Logout revokes the refresh cookie.
func Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, "", -1, "/", "", os.Getenv("APP_ENV") == "production", true)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// SeedUsers creates a demo admin and farmer account for local development.
func SeedUsers(ctx *gin.Context) {
	seeds := []struct {
		name, email, password, role string
	}{
		{"Admin User", "admin@agrisetu.in", "admin123", "admin"},
		{"Test Farmer", "farmer@agrisetu.in", "farmer123", "user"},
	}

	var created []gin.H
	for _, seed := range seeds {
		if _, err := findUserByEmail(seed.email); err == nil {
			continue
		}

		hashedPassword, err := hashPassword(seed.password)
		if err != nil {
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		user := models.User{Name: seed.name, Email: seed.email, Password: hashedPassword, Role: seed.role}
		if result := initializers.DB.Create(&user); result.Error != nil {
			initializers.Log.Errorw("User seeding failed", "email", seed.email, "error", result.Error)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		created = append(created, gin.H{"email": seed.email, "password": seed.password, "role": seed.role})
	}

	if len(created) == 0 {
		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Test users already exist"})
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Test users created", "users": created})
}
