package controllers

import (
	"net/http"
	"strconv"
	"time"

	"sakuranet-billing/logger"
	"sakuranet-billing/utils"
	"sakuranet-billing/web/db"
	"sakuranet-billing/web/email"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 30 * 24 * time.Hour

func signToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(tokenLifetime).Unix(),
	})
	return token.SignedString(utils.JWTSecret())
}

func deviceKnown(userID uint, ip string) bool {
	var device db.KnownDevice
	db.DB.Where("user_id = ? AND ip_address = ?", userID, ip).First(&device)
	return device.ID != 0
}

func rememberDevice(userID uint, ip string, userAgent string) {
	var device db.KnownDevice
	db.DB.Where("user_id = ? AND ip_address = ?", userID, ip).First(&device)
	if device.ID == 0 {
		db.DB.Create(&db.KnownDevice{
			UserID:      userID,
			IPAddress:   ip,
			UserAgent:   userAgent,
			LastLoginAt: time.Now(),
		})
		return
	}
	db.DB.Model(&device).Updates(map[string]interface{}{
		"user_agent":    userAgent,
		"last_login_at": time.Now(),
	})
}

func userResponse(user db.User) gin.H {
	return gin.H{
		"id":                 user.ID,
		"name":               user.Name,
		"email":              user.Email,
		"role":               user.Role,
		"balance":            user.Balance,
		"avatar":             user.Avatar,
		"two_factor_enabled": user.TwoFactorConfirmedAt != nil,
		"created_at":         user.CreatedAt.Format(time.RFC3339),
	}
}

func Register(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Name == "" || body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}
	if len(body.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to hash password."})
		return
	}

	user := db.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: string(hash),
		Role:     db.RoleUser,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	// The signup IP counts as trusted, so the first login from it does
	// not trigger device verification.
	rememberDevice(user.ID, c.ClientIP(), c.Request.UserAgent())

	tokenString, err := signToken(user.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": tokenString,
		"user":  userResponse(user),
	})
}

func Login(c *gin.Context) {
	var body struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		EmailCode     string `json:"email_code"`
		TwoFactorCode string `json:"two_factor_code"`
	}

	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	var user db.User
	db.DB.First(&user, "email = ?", body.Email)
	if user.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	ip := c.ClientIP()

	if !deviceKnown(user.ID, ip) {
		if user.TwoFactorConfirmedAt != nil && user.TwoFactorSecret != "" {
			// Authenticator replaces email codes once it is confirmed.
			if body.TwoFactorCode == "" {
				c.JSON(http.StatusForbidden, gin.H{"step": "2fa_required"})
				return
			}
			if !validateSecondFactor(&user, body.TwoFactorCode) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid two-factor code"})
				return
			}
		} else {
			key := "login:" + strconv.Itoa(int(user.ID))
			if body.EmailCode == "" {
				code := utils.RandomDigits(6)
				storeCode(key, code)
				userAgent := c.Request.UserAgent()
				go func() {
					if err := email.SendAuthCode(user.Email, code, "login", ip, userAgent); err != nil {
						logger.Error("send login code", zap.String("email", user.Email), zap.Error(err))
					}
				}()
				c.JSON(http.StatusForbidden, gin.H{"step": "email_code_required"})
				return
			}
			if !checkCode(key, body.EmailCode) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
				return
			}
		}
	}

	rememberDevice(user.ID, ip, c.Request.UserAgent())

	tokenString, err := signToken(user.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  userResponse(user),
	})
}

func Me(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	c.JSON(http.StatusOK, userResponse(userinfo))
}

func UpdateProfile(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body struct {
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	updates := map[string]interface{}{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Avatar != "" {
		updates["avatar"] = body.Avatar
	}
	if len(updates) > 0 {
		if err := db.DB.Model(&userinfo).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, userResponse(userinfo))
}

// SendPasswordCode mails a confirmation code that UpdatePassword
// requires, so a stolen session alone cannot change the password.
func SendPasswordCode(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	code := utils.RandomDigits(6)
	storeCode("password:"+strconv.Itoa(int(userinfo.ID)), code)

	ip := c.ClientIP()
	userAgent := c.Request.UserAgent()
	go func() {
		if err := email.SendAuthCode(userinfo.Email, code, "password", ip, userAgent); err != nil {
			logger.Error("send password code", zap.String("email", userinfo.Email), zap.Error(err))
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Code sent"})
}

func UpdatePassword(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		Code            string `json:"code"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if len(body.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userinfo.Password), []byte(body.CurrentPassword)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}
	if !checkCode("password:"+strconv.Itoa(int(userinfo.ID)), body.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to hash password."})
		return
	}
	if err := db.DB.Model(&userinfo).Update("password", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// ForgotPassword always answers 200 so the endpoint cannot be used to
// probe which emails have accounts.
func ForgotPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	var user db.User
	db.DB.First(&user, "email = ?", body.Email)
	if user.ID != 0 {
		code := utils.RandomDigits(6)
		storeCode("reset:"+user.Email, code)
		go func() {
			if err := email.SendPasswordReset(user.Email, code); err != nil {
				logger.Error("send reset code", zap.String("email", user.Email), zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the address exists, a reset code was sent"})
}

func ResetPassword(c *gin.Context) {
	var body struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if len(body.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}

	var user db.User
	db.DB.First(&user, "email = ?", body.Email)
	if user.ID == 0 || !checkCode("reset:"+body.Email, body.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to hash password."})
		return
	}
	if err := db.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "sakuranet-billing", "status": "ok"})
}
