package controllers

import (
	"net/http"
	"testing"

	"sakuranet-billing/provision"
	"sakuranet-billing/pterodactyl"
	"sakuranet-billing/web/db"

	"github.com/shopspring/decimal"
)

type fakePanel struct{}

func (fakePanel) FindUserByEmail(email string) (*pterodactyl.PanelUser, error) { return nil, nil }
func (fakePanel) CreateUser(req pterodactyl.CreateUserRequest) (*pterodactyl.PanelUser, error) {
	return &pterodactyl.PanelUser{ID: 1, Email: req.Email}, nil
}
func (fakePanel) GetEgg(nestID, eggID int) (*pterodactyl.Egg, error) {
	return &pterodactyl.Egg{ID: eggID, Name: "Paper"}, nil
}
func (fakePanel) CreateServer(req pterodactyl.CreateServerRequest) (*pterodactyl.Server, error) {
	return &pterodactyl.Server{ID: 1, Identifier: "srv1", Name: req.Name}, nil
}
func (fakePanel) UpdateServerStartup(serverID int, req pterodactyl.StartupRequest) error {
	return nil
}
func (fakePanel) ReinstallServer(serverID int) error { return nil }
func (fakePanel) DeleteServer(serverID int) error    { return nil }

func TestPurchaseInsufficientFundsReturns402(t *testing.T) {
	openControllerDB(t)
	Provisioner = provision.NewManager(db.DB, fakePanel{})

	user := db.User{Name: "Broke", Email: "broke@example.com", Balance: decimal.Zero}
	db.DB.Create(&user)
	product := db.Product{Name: "Minecraft 2GB", Price: decimal.RequireFromString("10.00"), PteroNestID: 1, PteroEggID: 5}
	db.DB.Create(&product)

	c, w := jsonRequest(t, user, "POST", "/services",
		`{"product_id":1,"name":"my server","period":1}`)
	PurchaseService(c)

	if w.Code != http.StatusPaymentRequired {
		t.Error("Expected 402 for an uncovered order, got", w.Code, w.Body.String())
	}
}

func TestPurchaseValidationReturns422(t *testing.T) {
	openControllerDB(t)
	Provisioner = provision.NewManager(db.DB, fakePanel{})

	user := db.User{Name: "Buyer", Email: "buyer@example.com", Balance: decimal.RequireFromString("100.00")}
	db.DB.Create(&user)
	product := db.Product{Name: "Minecraft 2GB", Price: decimal.RequireFromString("10.00"), PteroNestID: 1, PteroEggID: 5}
	db.DB.Create(&product)

	c, w := jsonRequest(t, user, "POST", "/services",
		`{"product_id":1,"name":"ab","period":1}`)
	PurchaseService(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Error("Expected 422 for a too-short name, got", w.Code, w.Body.String())
	}

	c, w = jsonRequest(t, user, "POST", "/services",
		`{"product_id":1,"name":"my server","period":7}`)
	PurchaseService(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Error("Expected 422 for an invalid period, got", w.Code, w.Body.String())
	}
}
