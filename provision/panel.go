package provision

import (
	"fmt"
	"regexp"
	"strings"

	"sakuranet-billing/pterodactyl"
	"sakuranet-billing/utils"
	"sakuranet-billing/web/db"
)

// PanelAPI is the slice of the panel client the provisioning workflow
// needs. Tests substitute a stub.
type PanelAPI interface {
	FindUserByEmail(email string) (*pterodactyl.PanelUser, error)
	CreateUser(req pterodactyl.CreateUserRequest) (*pterodactyl.PanelUser, error)
	GetEgg(nestID, eggID int) (*pterodactyl.Egg, error)
	CreateServer(req pterodactyl.CreateServerRequest) (*pterodactyl.Server, error)
	UpdateServerStartup(serverID int, req pterodactyl.StartupRequest) error
	ReinstallServer(serverID int) error
	DeleteServer(serverID int) error
}

// The panel restricts usernames and names to a narrow charset.
var nameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeNamePart(s, fallback string) string {
	s = nameSanitizer.ReplaceAllString(s, "")
	if s == "" {
		return fallback
	}
	return s
}

func splitName(name string) (string, string) {
	parts := strings.SplitN(name, " ", 2)
	first := sanitizeNamePart(parts[0], "Client")
	last := "User"
	if len(parts) == 2 {
		last = sanitizeNamePart(parts[1], "User")
	}
	return first, last
}

// ensurePanelUser finds or creates the panel account for a local user,
// keyed by email so repeated purchases never create duplicates.
// It returns the panel user id and, when an account was just created,
// the generated password (empty otherwise).
func (m *Manager) ensurePanelUser(user *db.User) (int, string, error) {
	existing, err := m.Panel.FindUserByEmail(user.Email)
	if err != nil {
		return 0, "", &RemoteError{Step: "user lookup", Err: err}
	}

	if existing != nil {
		if user.PterodactylID == nil || *user.PterodactylID != existing.ID {
			if err := m.DB.Model(user).Update("pterodactyl_id", existing.ID).Error; err != nil {
				return 0, "", err
			}
			id := existing.ID
			user.PterodactylID = &id
		}
		return existing.ID, "", nil
	}

	// The "!1a" suffix guarantees the panel's complexity rules are met
	// no matter what the random part came out as.
	password := utils.RandomString(12) + "!1a"
	first, last := splitName(user.Name)

	created, err := m.Panel.CreateUser(pterodactyl.CreateUserRequest{
		Email:     user.Email,
		Username:  fmt.Sprintf("client_%d_%s", user.ID, strings.ToLower(utils.RandomString(3))),
		FirstName: first,
		LastName:  last,
		Password:  password,
	})
	if err != nil {
		return 0, "", &RemoteError{Step: "user creation", Err: err}
	}

	if err := m.DB.Model(user).Updates(map[string]interface{}{
		"pterodactyl_id": created.ID,
		"ptero_password": password,
	}).Error; err != nil {
		return 0, "", err
	}
	id := created.ID
	user.PterodactylID = &id
	user.PteroPassword = password

	return created.ID, password, nil
}
