package db

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Name     string
	Email    string `gorm:"unique"`
	Password string `json:"-"`

	Role    string          `gorm:"default:user"`
	Balance decimal.Decimal `gorm:"type:decimal(10,2)"`
	Avatar  string

	// Linked account in the hosting panel. The password is stored in
	// plaintext because the panel needs it handed to the customer once
	// after creation; it is never exposed through the API afterwards.
	PterodactylID *int   `gorm:"column:pterodactyl_id"`
	PteroPassword string `json:"-"`

	TwoFactorSecret        string `json:"-"`
	TwoFactorRecoveryCodes string `json:"-"` // JSON array
	TwoFactorConfirmedAt   *time.Time
}

// KnownDevice records an IP a user has logged in from before. Logins
// from unknown IPs require an email code or a TOTP code.
type KnownDevice struct {
	gorm.Model
	UserID      uint `gorm:"index"`
	IPAddress   string
	UserAgent   string
	LastLoginAt time.Time
}

type Product struct {
	gorm.Model
	Name     string
	Category string
	Country  string
	GameType string
	Price    decimal.Decimal `gorm:"type:decimal(10,2)"` // per month

	// Defaults used when the buyer does not pick a nest/egg themselves.
	PteroNestID      int
	PteroEggID       int
	PteroDockerImage string
	PteroStartup     string

	MemoryMB    int `gorm:"default:1024"`
	DiskMB      int `gorm:"default:5120"`
	CPULimit    int `gorm:"default:100"`
	Databases   int
	Backups     int
	Allocations int
}

// Service statuses. A row with StatusInstalling and a nil
// PteroServerID is the durable marker of an in-flight purchase.
const (
	StatusInstalling = "installing"
	StatusActive     = "active"
	StatusSuspended  = "suspended"
	StatusCancelled  = "cancelled"
)

type Service struct {
	gorm.Model
	UserID    uint `gorm:"index"`
	ProductID uint
	Product   Product

	Name       string
	Identifier string `gorm:"unique"`

	PteroServerID *int   `gorm:"column:ptero_server_id"`
	IPAddress     string // placeholder until the panel assigns one
	Core          string // name of the installed egg

	Status       string
	PriceMonthly decimal.Decimal `gorm:"type:decimal(10,2)"` // undiscounted rate snapshot
	ExpiresAt    time.Time
}

type Payment struct {
	gorm.Model
	OrderID string `gorm:"unique"`
	UserID  uint   `gorm:"index"`
	Amount  decimal.Decimal `gorm:"type:decimal(10,2)"`
	Method  string
	Status  string
}

type Ticket struct {
	gorm.Model
	UserID   uint `gorm:"index"`
	User     User
	Subject  string
	Priority string // low, medium, high
	Status   string // open, answered, closed

	Messages []TicketMessage
}

type TicketMessage struct {
	gorm.Model
	TicketID  uint `gorm:"index"`
	UserID    uint
	User      User
	Message   string
	IsSupport bool
}

type Notification struct {
	gorm.Model
	UserID  uint `gorm:"index"`
	Title   string
	Message string
	Type    string // info, success, warning, error
	IsRead  bool
}
