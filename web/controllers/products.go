package controllers

import (
	"net/http"

	"sakuranet-billing/web/db"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListProducts is public: the storefront shows plans before signup.
// Optional category/country/game_type filters narrow the list.
func ListProducts(c *gin.Context) {
	query := db.DB.Model(&db.Product{})
	if v := c.Query("category"); v != "" {
		query = query.Where("category = ?", v)
	}
	if v := c.Query("country"); v != "" {
		query = query.Where("country = ?", v)
	}
	if v := c.Query("game_type"); v != "" {
		query = query.Where("game_type = ?", v)
	}

	var products []db.Product
	if err := query.Order("price ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	var product db.Product
	db.DB.First(&product, c.Param("id"))
	if product.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

type productBody struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Country  string          `json:"country"`
	GameType string          `json:"game_type"`
	Price    decimal.Decimal `json:"price"`

	PteroNestID      int    `json:"ptero_nest_id"`
	PteroEggID       int    `json:"ptero_egg_id"`
	PteroDockerImage string `json:"ptero_docker_image"`
	PteroStartup     string `json:"ptero_startup"`

	MemoryMB    int `json:"memory_mb"`
	DiskMB      int `json:"disk_mb"`
	CPULimit    int `json:"cpu_limit"`
	Databases   int `json:"databases"`
	Backups     int `json:"backups"`
	Allocations int `json:"allocations"`
}

func CreateProduct(c *gin.Context) {
	var body productBody
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Name == "" || body.Price.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a positive price are required"})
		return
	}

	product := db.Product{
		Name:             body.Name,
		Category:         body.Category,
		Country:          body.Country,
		GameType:         body.GameType,
		Price:            body.Price,
		PteroNestID:      body.PteroNestID,
		PteroEggID:       body.PteroEggID,
		PteroDockerImage: body.PteroDockerImage,
		PteroStartup:     body.PteroStartup,
		MemoryMB:         body.MemoryMB,
		DiskMB:           body.DiskMB,
		CPULimit:         body.CPULimit,
		Databases:        body.Databases,
		Backups:          body.Backups,
		Allocations:      body.Allocations,
	}

	if err := db.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct changes the catalog entry only. Existing services keep
// the price snapshot they were bought at.
func UpdateProduct(c *gin.Context) {
	var product db.Product
	db.DB.First(&product, c.Param("id"))
	if product.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var body productBody
	if c.BindJSON(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if body.Name == "" || body.Price.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and a positive price are required"})
		return
	}

	product.Name = body.Name
	product.Category = body.Category
	product.Country = body.Country
	product.GameType = body.GameType
	product.Price = body.Price
	product.PteroNestID = body.PteroNestID
	product.PteroEggID = body.PteroEggID
	product.PteroDockerImage = body.PteroDockerImage
	product.PteroStartup = body.PteroStartup
	product.MemoryMB = body.MemoryMB
	product.DiskMB = body.DiskMB
	product.CPULimit = body.CPULimit
	product.Databases = body.Databases
	product.Backups = body.Backups
	product.Allocations = body.Allocations

	if err := db.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	var product db.Product
	db.DB.First(&product, c.Param("id"))
	if product.ID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := db.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
