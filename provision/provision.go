package provision

import (
	"errors"
	"net/http"
	"time"

	"sakuranet-billing/logger"
	"sakuranet-billing/pterodactyl"
	"sakuranet-billing/web/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Manager orchestrates purchases and core changes across the local
// store and the hosting panel. The two systems share no transaction:
// the local debit is a self-contained atomic update committed before
// any panel call, and every panel failure during a purchase is
// compensated by a refund.
type Manager struct {
	DB    *gorm.DB
	Panel PanelAPI
}

func NewManager(gdb *gorm.DB, panel PanelAPI) *Manager {
	return &Manager{DB: gdb, Panel: panel}
}

type PurchaseRequest struct {
	ProductID   uint
	Name        string
	Period      int // months
	NestID      int
	EggID       int
	DockerImage string
	Environment map[string]string
}

type PurchaseResult struct {
	Service *db.Service
	// NewPanelPassword is set only when this purchase created the
	// user's panel account. It is never retrievable again.
	NewPanelPassword string
}

var validPeriods = map[int]bool{1: true, 3: true, 6: true, 12: true}

func (m *Manager) Purchase(userID uint, req PurchaseRequest) (*PurchaseResult, error) {
	if l := len(req.Name); l < 3 || l > 50 {
		return nil, &ValidationError{Msg: "name must be between 3 and 50 characters"}
	}
	if !validPeriods[req.Period] {
		return nil, &ValidationError{Msg: "period must be one of 1, 3, 6 or 12 months"}
	}

	var product db.Product
	if err := m.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product"}
		}
		return nil, err
	}

	nestID := req.NestID
	if nestID == 0 {
		nestID = product.PteroNestID
	}
	eggID := req.EggID
	if eggID == 0 {
		eggID = product.PteroEggID
	}
	if nestID == 0 || eggID == 0 {
		return nil, ErrNoEggSelected
	}

	var user db.User
	if err := m.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	total := Total(product.Price, req.Period)

	if err := m.debit(user.ID, total); err != nil {
		return nil, err
	}

	result, err := m.provision(&user, &product, req, nestID, eggID)
	if err != nil {
		// No server was left standing on the panel, so the money goes
		// back in full.
		if refundErr := m.refund(user.ID, total); refundErr != nil {
			logger.Error("refund after failed provisioning",
				zap.Uint("user_id", user.ID),
				zap.String("amount", total.String()),
				zap.Error(refundErr))
		}
		return nil, err
	}
	return result, nil
}

// debit takes the order total off the balance in a single conditional
// UPDATE, so concurrent purchases cannot spend past the balance: the
// statement refuses rather than going negative.
func (m *Manager) debit(userID uint, amount decimal.Decimal) error {
	res := m.DB.Model(&db.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (m *Manager) refund(userID uint, amount decimal.Decimal) error {
	return m.DB.Model(&db.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error
}

func (m *Manager) provision(user *db.User, product *db.Product, req PurchaseRequest, nestID, eggID int) (*PurchaseResult, error) {
	panelUserID, newPassword, err := m.ensurePanelUser(user)
	if err != nil {
		return nil, err
	}

	egg, err := m.Panel.GetEgg(nestID, eggID)
	if err != nil {
		var apiErr *pterodactyl.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Resource: "egg"}
		}
		return nil, &RemoteError{Step: "egg lookup", Err: err}
	}

	image := req.DockerImage
	if image == "" {
		image = egg.DockerImage
	}
	startup := product.PteroStartup
	if startup == "" {
		startup = egg.Startup
	}

	environment := BuildEnvironment(egg.Variables, req.Environment)

	memory := product.MemoryMB
	if memory == 0 {
		memory = 1024
	}
	disk := product.DiskMB
	if disk == 0 {
		disk = 5000
	}
	cpu := product.CPULimit
	if cpu == 0 {
		cpu = 100
	}

	// Durable marker: status "installing" with no panel server id
	// records the in-flight purchase so a crash between here and the
	// panel call can be found by the reconcile sweep.
	service := &db.Service{
		UserID:       user.ID,
		ProductID:    product.ID,
		Name:         req.Name,
		Identifier:   uuid.NewString(),
		IPAddress:    "pending",
		Core:         egg.Name,
		Status:       db.StatusInstalling,
		PriceMonthly: product.Price,
		ExpiresAt:    time.Now().AddDate(0, req.Period, 0),
	}
	if err := m.DB.Create(service).Error; err != nil {
		return nil, err
	}

	server, err := m.Panel.CreateServer(pterodactyl.CreateServerRequest{
		Name:        req.Name,
		User:        panelUserID,
		Nest:        nestID,
		Egg:         eggID,
		DockerImage: image,
		Startup:     startup,
		Environment: environment,
		Limits: pterodactyl.Limits{
			Memory: memory,
			Swap:   0,
			Disk:   disk,
			IO:     500,
			CPU:    cpu,
		},
		FeatureLimits: pterodactyl.FeatureLimits{
			Databases:   product.Databases,
			Backups:     product.Backups,
			Allocations: product.Allocations,
		},
		Deploy: pterodactyl.Deploy{
			Locations:   []int{1},
			DedicatedIP: false,
			PortRange:   []string{},
		},
	})
	if err != nil {
		m.DB.Unscoped().Delete(service)
		return nil, &RemoteError{Step: "server creation", Err: err}
	}

	serverID := server.ID
	if err := m.DB.Model(service).Updates(map[string]interface{}{
		"ptero_server_id": serverID,
		"identifier":      server.Identifier,
		"name":            server.Name,
	}).Error; err != nil {
		// The panel server exists but we cannot record it; tear it
		// down again so the refund leaves both sides clean.
		if delErr := m.Panel.DeleteServer(serverID); delErr != nil {
			logger.Error("orphaned panel server after local write failure",
				zap.Int("ptero_server_id", serverID), zap.Error(delErr))
		}
		m.DB.Unscoped().Delete(service)
		return nil, err
	}
	service.PteroServerID = &serverID
	service.Identifier = server.Identifier
	service.Name = server.Name

	return &PurchaseResult{Service: service, NewPanelPassword: newPassword}, nil
}

// ChangeCore switches a provisioned server to another egg. Local state
// is only touched after both panel calls succeed.
func (m *Manager) ChangeCore(service *db.Service, nestID, eggID int) error {
	if service.PteroServerID == nil {
		return ErrNotProvisioned
	}

	egg, err := m.Panel.GetEgg(nestID, eggID)
	if err != nil {
		var apiErr *pterodactyl.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return &NotFoundError{Resource: "egg"}
		}
		return &RemoteError{Step: "egg lookup", Err: err}
	}

	env := InferEnvironment(egg.Variables)

	if err := m.Panel.UpdateServerStartup(*service.PteroServerID, pterodactyl.StartupRequest{
		Egg:         eggID,
		Image:       egg.DockerImage,
		Startup:     egg.Startup,
		Environment: env,
		SkipScripts: false,
	}); err != nil {
		return &RemoteError{Step: "startup update", Err: err}
	}

	if err := m.Panel.ReinstallServer(*service.PteroServerID); err != nil {
		return &RemoteError{Step: "reinstall", Err: err}
	}

	if err := m.DB.Model(service).Updates(map[string]interface{}{
		"core":   egg.Name,
		"status": db.StatusInstalling,
	}).Error; err != nil {
		return err
	}
	service.Core = egg.Name
	service.Status = db.StatusInstalling
	return nil
}

// Cancel removes the panel server first and only then drops the local
// record, so a cancelled service never leaves a running server behind.
// A 404 from the panel means the server is already gone.
func (m *Manager) Cancel(service *db.Service) error {
	if service.PteroServerID != nil {
		if err := m.Panel.DeleteServer(*service.PteroServerID); err != nil {
			var apiErr *pterodactyl.APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
				return &RemoteError{Step: "server deletion", Err: err}
			}
		}
	}
	return m.DB.Delete(service).Error
}
