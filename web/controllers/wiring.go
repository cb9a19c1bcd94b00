package controllers

import (
	"sakuranet-billing/provision"
	"sakuranet-billing/pterodactyl"
	"sakuranet-billing/web/db"
)

var (
	Panel       *pterodactyl.Client
	Provisioner *provision.Manager
)

// Setup wires the panel client into the controllers. Call after
// db.Connect.
func Setup(panel *pterodactyl.Client) {
	Panel = panel
	Provisioner = provision.NewManager(db.DB, panel)
	startCodeCleanup(codeTTL)
}
