package controllers

import (
	"net/http"
	"testing"
	"time"

	"sakuranet-billing/web/db"

	"github.com/pquerna/otp/totp"
)

func twoFactorUser(t *testing.T) db.User {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: "tf@example.com"})
	if err != nil {
		t.Fatal("Failed to generate secret:", err)
	}
	now := time.Now()
	user := db.User{
		Name:                   "TF User",
		Email:                  "tf@example.com",
		TwoFactorSecret:        key.Secret(),
		TwoFactorRecoveryCodes: `["AAAAA-AAAAA"]`,
		TwoFactorConfirmedAt:   &now,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatal("Failed to create user:", err)
	}
	return user
}

func TestDisableTwoFactorRequiresCode(t *testing.T) {
	openControllerDB(t)
	user := twoFactorUser(t)

	c, w := jsonRequest(t, user, "DELETE", "/user/two-factor-authentication", `{"code":"000000"}`)
	DisableTwoFactor(c)

	if w.Code != http.StatusBadRequest {
		t.Error("Expected 400 for a wrong code, got", w.Code, w.Body.String())
	}

	var reloaded db.User
	db.DB.First(&reloaded, user.ID)
	if reloaded.TwoFactorSecret == "" || reloaded.TwoFactorConfirmedAt == nil {
		t.Error("Expected the second factor to stay in place after a refused disable")
	}
}

func TestDisableTwoFactorWithValidCode(t *testing.T) {
	openControllerDB(t)
	user := twoFactorUser(t)

	code, err := totp.GenerateCode(user.TwoFactorSecret, time.Now())
	if err != nil {
		t.Fatal("Failed to generate code:", err)
	}

	c, w := jsonRequest(t, user, "DELETE", "/user/two-factor-authentication", `{"code":"`+code+`"}`)
	DisableTwoFactor(c)

	if w.Code != http.StatusOK {
		t.Fatal("Expected 200, got", w.Code, w.Body.String())
	}

	var reloaded db.User
	db.DB.First(&reloaded, user.ID)
	if reloaded.TwoFactorSecret != "" || reloaded.TwoFactorConfirmedAt != nil {
		t.Error("Expected the second factor to be cleared")
	}
}

func TestDisableTwoFactorNotSetUp(t *testing.T) {
	openControllerDB(t)
	user := db.User{Name: "Plain", Email: "plain@example.com"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatal("Failed to create user:", err)
	}

	c, w := jsonRequest(t, user, "DELETE", "/user/two-factor-authentication", `{"code":"123456"}`)
	DisableTwoFactor(c)

	if w.Code != http.StatusBadRequest {
		t.Error("Expected 400 when two-factor is not set up, got", w.Code, w.Body.String())
	}
}
