package controllers

import (
	"net/http"

	"sakuranet-billing/logger"
	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func AdminListUsers(c *gin.Context) {
	query := db.DB.Model(&db.User{})
	if v := c.Query("search"); v != "" {
		like := "%" + v + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", like, like)
	}

	var users []db.User
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		var serviceCount int64
		db.DB.Model(&db.Service{}).Where("user_id = ?", u.ID).Count(&serviceCount)
		entry := userResponse(u)
		entry["services"] = serviceCount
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, out)
}

// AdminUpdateUser changes role and applies balance adjustments. The
// adjustment goes through a locked read so it cannot race a purchase.
func AdminUpdateUser(c *gin.Context) {
	var body struct {
		Role              string           `json:"role"`
		BalanceAdjustment *decimal.Decimal `json:"balance_adjustment"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Role != "" && body.Role != db.RoleUser && body.Role != db.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be user or admin"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, c.Param("id")).Error; err != nil {
			return err
		}

		if body.Role != "" {
			user.Role = body.Role
		}
		if body.BalanceAdjustment != nil {
			next := user.Balance.Add(*body.BalanceAdjustment)
			if next.IsNegative() {
				next = decimal.Zero
			}
			user.Balance = next
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("admin user update", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// AdminDeleteUser refuses while the user still has services, so no
// panel server is orphaned by the deletion.
func AdminDeleteUser(c *gin.Context) {
	user, _ := c.Get("user")
	admin := user.(db.User)

	var target db.User
	db.DB.First(&target, c.Param("id"))
	if target.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID == admin.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	var serviceCount int64
	db.DB.Model(&db.Service{}).Where("user_id = ?", target.ID).Count(&serviceCount)
	if serviceCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User still has active services"})
		return
	}

	if err := db.DB.Delete(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func AdminListServices(c *gin.Context) {
	var services []db.Service
	if err := db.DB.Preload("Product").Order("created_at DESC").
		Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

// AdminListPanelServers shows the panel's view, so drift between the
// billing records and the panel is visible at a glance.
func AdminListPanelServers(c *gin.Context) {
	servers, err := Panel.ListServers()
	if err != nil {
		logger.Error("list panel servers", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch panel servers"})
		return
	}

	c.JSON(http.StatusOK, servers)
}
