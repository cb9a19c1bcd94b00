package controllers

import (
	"net/http"

	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

var (
	topupMin = decimal.NewFromInt(1)
	topupMax = decimal.NewFromInt(10000)
)

// Topup opens a pending payment. The gateway confirms it through
// PaymentCallback; until then the balance is untouched.
func Topup(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var req struct {
		Amount decimal.Decimal `json:"amount"`
		Method string          `json:"method"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Amount.LessThan(topupMin) || req.Amount.GreaterThan(topupMax) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be between 1 and 10000"})
		return
	}
	if req.Method == "" {
		req.Method = "card"
	}

	orderid := uuid.New().String()

	payment := db.Payment{
		OrderID: orderid,
		UserID:  userinfo.ID,
		Amount:  req.Amount,
		Method:  req.Method,
		Status:  "pending",
	}

	if err := db.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Payment submitted",
		"order_id": orderid,
		"amount":   req.Amount,
	})
}

// PaymentCallback marks an order paid and credits the balance. The
// payment row is locked so a gateway retry cannot credit twice.
func PaymentCallback(c *gin.Context) {
	orderID := c.Query("order_id")

	tx := db.DB.Begin()

	var payment db.Payment
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if payment.Status == "paid" {
		tx.Rollback()
		c.JSON(http.StatusOK, gin.H{"message": "Payment already processed"})
		return
	}

	payment.Status = "paid"
	if err := tx.Save(&payment).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	var user db.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, payment.UserID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	user.Balance = user.Balance.Add(payment.Amount)
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit balance"})
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

func GetPaymentStatus(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var payment db.Payment
	db.DB.Where("order_id = ? AND user_id = ?", c.Param("order_id"), userinfo.ID).First(&payment)
	if payment.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": payment.OrderID,
		"amount":   payment.Amount,
		"method":   payment.Method,
		"status":   payment.Status,
	})
}

func ListPayments(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var payments []db.Payment
	if err := db.DB.Where("user_id = ?", userinfo.ID).
		Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
