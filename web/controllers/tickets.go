package controllers

import (
	"net/http"

	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
)

var validPriorities = map[string]bool{"low": true, "medium": true, "high": true}

func ListTickets(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var tickets []db.Ticket
	if err := db.DB.Where("user_id = ?", userinfo.ID).
		Order("updated_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tickets"})
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func CreateTicket(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body struct {
		Subject  string `json:"subject"`
		Priority string `json:"priority"`
		Message  string `json:"message"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Subject == "" || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject and message are required"})
		return
	}
	if body.Priority == "" {
		body.Priority = "medium"
	}
	if !validPriorities[body.Priority] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Priority must be low, medium or high"})
		return
	}

	ticket := db.Ticket{
		UserID:   userinfo.ID,
		Subject:  body.Subject,
		Priority: body.Priority,
		Status:   "open",
		Messages: []db.TicketMessage{{
			UserID:  userinfo.ID,
			Message: body.Message,
		}},
	}

	if err := db.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func ownedTicket(c *gin.Context) (db.Ticket, bool) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var ticket db.Ticket
	db.DB.Preload("Messages").Preload("Messages.User").
		Where("id = ? AND user_id = ?", c.Param("id"), userinfo.ID).First(&ticket)
	if ticket.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return db.Ticket{}, false
	}
	return ticket, true
}

func GetTicket(c *gin.Context) {
	ticket, ok := ownedTicket(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// ReplyTicket adds a customer message. A reply to a closed ticket
// reopens it.
func ReplyTicket(c *gin.Context) {
	ticket, ok := ownedTicket(c)
	if !ok {
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if c.BindJSON(&body) != nil || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	user, _ := c.Get("user")
	userinfo := user.(db.User)

	message := db.TicketMessage{
		TicketID: ticket.ID,
		UserID:   userinfo.ID,
		Message:  body.Message,
	}
	if err := db.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reply"})
		return
	}

	if err := db.DB.Model(&ticket).Update("status", "open").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Admin side.

func AdminListTickets(c *gin.Context) {
	query := db.DB.Preload("User")
	if v := c.Query("status"); v != "" {
		query = query.Where("status = ?", v)
	}

	var tickets []db.Ticket
	if err := query.Order("updated_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tickets"})
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func AdminGetTicket(c *gin.Context) {
	var ticket db.Ticket
	db.DB.Preload("User").Preload("Messages").Preload("Messages.User").
		First(&ticket, c.Param("id"))
	if ticket.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func AdminUpdateTicketStatus(c *gin.Context) {
	var ticket db.Ticket
	db.DB.First(&ticket, c.Param("id"))
	if ticket.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Status != "open" && body.Status != "answered" && body.Status != "closed" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be open, answered or closed"})
		return
	}

	if err := db.DB.Model(&ticket).Update("status", body.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket updated"})
}

func AdminReplyTicket(c *gin.Context) {
	var ticket db.Ticket
	db.DB.First(&ticket, c.Param("id"))
	if ticket.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if c.BindJSON(&body) != nil || body.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	user, _ := c.Get("user")
	userinfo := user.(db.User)

	message := db.TicketMessage{
		TicketID:  ticket.ID,
		UserID:    userinfo.ID,
		Message:   body.Message,
		IsSupport: true,
	}
	if err := db.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add reply"})
		return
	}

	if err := db.DB.Model(&ticket).Update("status", "answered").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
		return
	}

	// Nudge the customer so they see the answer without polling.
	db.DB.Create(&db.Notification{
		UserID:  ticket.UserID,
		Title:   "Support replied to your ticket",
		Message: ticket.Subject,
		Type:    "info",
	})

	c.JSON(http.StatusCreated, message)
}
