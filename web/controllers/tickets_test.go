package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openControllerDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Product{}, &db.Service{},
		&db.Ticket{}, &db.TicketMessage{}, &db.Notification{}); err != nil {
		t.Fatal("Failed to migrate:", err)
	}
	db.DB = gdb
}

func jsonRequest(t *testing.T, user db.User, method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Set("user", user)
	return c, w
}

func TestReplyReopensClosedTicket(t *testing.T) {
	openControllerDB(t)

	user := db.User{Name: "Customer", Email: "c@example.com"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatal("Failed to create user:", err)
	}
	ticket := db.Ticket{UserID: user.ID, Subject: "Server down", Priority: "high", Status: "closed"}
	if err := db.DB.Create(&ticket).Error; err != nil {
		t.Fatal("Failed to create ticket:", err)
	}

	c, w := jsonRequest(t, user, "POST", "/tickets/1/reply", `{"message":"still broken"}`)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(ticket.ID)}}
	ReplyTicket(c)

	if w.Code != http.StatusCreated {
		t.Fatal("Expected 201, got", w.Code, w.Body.String())
	}

	var reloaded db.Ticket
	db.DB.First(&reloaded, ticket.ID)
	if reloaded.Status != "open" {
		t.Error("Expected reply to reopen the ticket, got status", reloaded.Status)
	}

	var messages int64
	db.DB.Model(&db.TicketMessage{}).Where("ticket_id = ?", ticket.ID).Count(&messages)
	if messages != 1 {
		t.Error("Expected one message, got", messages)
	}
}

func TestAdminReplyMarksAnswered(t *testing.T) {
	openControllerDB(t)

	customer := db.User{Name: "Customer", Email: "c@example.com"}
	admin := db.User{Name: "Support", Email: "s@example.com", Role: db.RoleAdmin}
	db.DB.Create(&customer)
	db.DB.Create(&admin)
	ticket := db.Ticket{UserID: customer.ID, Subject: "Billing question", Priority: "low", Status: "open"}
	db.DB.Create(&ticket)

	c, w := jsonRequest(t, admin, "POST", "/admin/tickets/1/reply", `{"message":"fixed"}`)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprint(ticket.ID)}}
	AdminReplyTicket(c)

	if w.Code != http.StatusCreated {
		t.Fatal("Expected 201, got", w.Code, w.Body.String())
	}

	var reloaded db.Ticket
	db.DB.First(&reloaded, ticket.ID)
	if reloaded.Status != "answered" {
		t.Error("Expected status answered, got", reloaded.Status)
	}

	var message db.TicketMessage
	db.DB.Where("ticket_id = ?", ticket.ID).First(&message)
	if !message.IsSupport {
		t.Error("Expected the reply to be flagged as support")
	}

	var notified int64
	db.DB.Model(&db.Notification{}).Where("user_id = ?", customer.ID).Count(&notified)
	if notified != 1 {
		t.Error("Expected the customer to be notified, got", notified)
	}
}

func TestAdminNotificationFanOut(t *testing.T) {
	openControllerDB(t)

	admin := db.User{Name: "Admin", Email: "a@example.com", Role: db.RoleAdmin}
	db.DB.Create(&admin)
	for i := 0; i < 3; i++ {
		db.DB.Create(&db.User{Name: "User", Email: fmt.Sprintf("u%d@example.com", i)})
	}

	c, w := jsonRequest(t, admin, "POST", "/admin/notifications",
		`{"title":"Maintenance","message":"Tonight at 02:00 UTC","type":"warning"}`)
	AdminSendNotification(c)

	if w.Code != http.StatusCreated {
		t.Fatal("Expected 201, got", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&db.Notification{}).Count(&count)
	if count != 4 {
		t.Error("Expected one notification per user (4), got", count)
	}
}
