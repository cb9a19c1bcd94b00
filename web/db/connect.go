package db

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	var err error

	dsn := os.Getenv("DB")
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

// Sync runs the auto-migration for every model.
func Sync() {
	err := DB.AutoMigrate(
		&User{},
		&KnownDevice{},
		&Product{},
		&Service{},
		&Payment{},
		&Ticket{},
		&TicketMessage{},
		&Notification{},
	)
	if err != nil {
		panic(err)
	}
}
