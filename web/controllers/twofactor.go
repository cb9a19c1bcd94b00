package controllers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"sakuranet-billing/utils"
	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

const totpIssuer = "SakuraNet"

func recoveryCodes() []string {
	codes := make([]string, 8)
	for i := range codes {
		codes[i] = utils.RandomString(5) + "-" + utils.RandomString(5)
	}
	return codes
}

// validateSecondFactor accepts a current TOTP code or one of the
// recovery codes. A matched recovery code is burned.
func validateSecondFactor(user *db.User, code string) bool {
	if totp.Validate(code, user.TwoFactorSecret) {
		return true
	}

	var codes []string
	if err := json.Unmarshal([]byte(user.TwoFactorRecoveryCodes), &codes); err != nil {
		return false
	}
	for i, rc := range codes {
		if rc == code {
			remaining := append(codes[:i], codes[i+1:]...)
			raw, _ := json.Marshal(remaining)
			db.DB.Model(user).Update("two_factor_recovery_codes", string(raw))
			return true
		}
	}
	return false
}

func EnableTwoFactor(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if userinfo.TwoFactorConfirmedAt != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two-factor authentication is already enabled"})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: userinfo.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate secret"})
		return
	}

	raw, _ := json.Marshal(recoveryCodes())

	if err := db.DB.Model(&userinfo).Updates(map[string]interface{}{
		"two_factor_secret":         key.Secret(),
		"two_factor_recovery_codes": string(raw),
		"two_factor_confirmed_at":   nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enable two-factor authentication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication pending confirmation"})
}

func ConfirmTwoFactor(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body struct {
		Code string `json:"code"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if userinfo.TwoFactorSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two-factor authentication has not been set up"})
		return
	}
	if !totp.Validate(body.Code, userinfo.TwoFactorSecret) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid two-factor code"})
		return
	}

	now := time.Now()
	if err := db.DB.Model(&userinfo).Update("two_factor_confirmed_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm two-factor authentication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication enabled"})
}

// DisableTwoFactor requires a current code so a stolen session token
// cannot strip the account's second factor on its own.
func DisableTwoFactor(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body struct {
		Code string `json:"code"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if userinfo.TwoFactorSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two-factor authentication has not been set up"})
		return
	}
	if !validateSecondFactor(&userinfo, body.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid two-factor code"})
		return
	}

	if err := db.DB.Model(&userinfo).Updates(map[string]interface{}{
		"two_factor_secret":         "",
		"two_factor_recovery_codes": "",
		"two_factor_confirmed_at":   nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disable two-factor authentication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication disabled"})
}

func TwoFactorQRCode(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if userinfo.TwoFactorSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two-factor authentication has not been set up"})
		return
	}

	uri := "otpauth://totp/" + totpIssuer + ":" + userinfo.Email +
		"?secret=" + userinfo.TwoFactorSecret + "&issuer=" + totpIssuer

	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qr_code": "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		"url":     uri,
	})
}

func TwoFactorSecretKey(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if userinfo.TwoFactorSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two-factor authentication has not been set up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"secretKey": userinfo.TwoFactorSecret})
}

func TwoFactorRecoveryCodes(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	if userinfo.TwoFactorRecoveryCodes == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two-factor authentication has not been set up"})
		return
	}

	var codes []string
	if err := json.Unmarshal([]byte(userinfo.TwoFactorRecoveryCodes), &codes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read recovery codes"})
		return
	}

	c.JSON(http.StatusOK, codes)
}
