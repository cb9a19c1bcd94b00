package controllers

import (
	"errors"
	"net/http"

	"sakuranet-billing/logger"
	"sakuranet-billing/provision"
	"sakuranet-billing/utils"
	"sakuranet-billing/web/db"
	"sakuranet-billing/web/email"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func serviceResponse(svc db.Service) gin.H {
	return gin.H{
		"id":            svc.ID,
		"name":          svc.Name,
		"identifier":    svc.Identifier,
		"ip_address":    svc.IPAddress,
		"core":          svc.Core,
		"status":        svc.Status,
		"price_monthly": svc.PriceMonthly,
		"expires_at":    svc.ExpiresAt,
		"product":       svc.Product,
	}
}

// provisionError translates provisioning failures into HTTP answers.
// Panel failures become 502 with the panel's own detail attached.
func provisionError(c *gin.Context, err error) {
	var valErr *provision.ValidationError
	var nfErr *provision.NotFoundError
	var remErr *provision.RemoteError

	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": valErr.Msg})
	case errors.Is(err, provision.ErrNoEggSelected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No game core selected"})
	case errors.Is(err, provision.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, provision.ErrNotProvisioned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Service has no server attached"})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
	case errors.As(err, &remErr):
		logger.Error("panel call failed", zap.String("step", remErr.Step), zap.Error(remErr.Err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Hosting panel error: " + remErr.Detail()})
	default:
		logger.Error("provisioning failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process order"})
	}
}

func ListServices(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var services []db.Service
	if err := db.DB.Preload("Product").Where("user_id = ?", userinfo.ID).
		Order("created_at DESC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}

	out := make([]gin.H, 0, len(services))
	for _, svc := range services {
		out = append(out, serviceResponse(svc))
	}
	c.JSON(http.StatusOK, out)
}

func ownedService(c *gin.Context) (db.Service, bool) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var svc db.Service
	db.DB.Preload("Product").Where("id = ? AND user_id = ?", c.Param("id"), userinfo.ID).First(&svc)
	if svc.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return db.Service{}, false
	}
	return svc, true
}

func GetService(c *gin.Context) {
	svc, ok := ownedService(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, serviceResponse(svc))
}

func PurchaseService(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body struct {
		ProductID   uint              `json:"product_id"`
		Name        string            `json:"name"`
		Period      int               `json:"period"`
		NestID      int               `json:"nest_id"`
		EggID       int               `json:"egg_id"`
		DockerImage string            `json:"docker_image"`
		Environment map[string]string `json:"environment"`
	}
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	result, err := Provisioner.Purchase(userinfo.ID, provision.PurchaseRequest{
		ProductID:   body.ProductID,
		Name:        body.Name,
		Period:      body.Period,
		NestID:      body.NestID,
		EggID:       body.EggID,
		DockerImage: body.DockerImage,
		Environment: body.Environment,
	})
	if err != nil {
		provisionError(c, err)
		return
	}

	if result.NewPanelPassword != "" {
		password := result.NewPanelPassword
		go func() {
			if err := email.SendPanelCredentials(userinfo.Email, utils.PanelURL(), password); err != nil {
				logger.Error("send panel credentials", zap.String("email", userinfo.Email), zap.Error(err))
			}
		}()
	}

	resp := gin.H{"service": serviceResponse(*result.Service)}
	if result.NewPanelPassword != "" {
		resp["panel_password"] = result.NewPanelPassword
	}
	c.JSON(http.StatusCreated, resp)
}

func ChangeServiceCore(c *gin.Context) {
	svc, ok := ownedService(c)
	if !ok {
		return
	}

	var body struct {
		NestID int `json:"nest_id"`
		EggID  int `json:"egg_id"`
	}
	if c.BindJSON(&body) != nil || body.NestID == 0 || body.EggID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nest_id and egg_id are required"})
		return
	}

	if err := Provisioner.ChangeCore(&svc, body.NestID, body.EggID); err != nil {
		provisionError(c, err)
		return
	}

	c.JSON(http.StatusOK, serviceResponse(svc))
}

// CancelService removes the panel server and then the local record. If
// the panel refuses, the service stays so nothing leaks.
func CancelService(c *gin.Context) {
	svc, ok := ownedService(c)
	if !ok {
		return
	}

	if err := Provisioner.Cancel(&svc); err != nil {
		provisionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service cancelled"})
}
