package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/rakshop/internal/models"
	"github.com/example/rakshop/internal/utils"
)

// ProductHandler manages product CRUD and image uploads.
type ProductHandler struct {
	db        *gorm.DB
	uploadDir string
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(db *gorm.DB, uploadDir string) *ProductHandler {
	return &ProductHandler{db: db, uploadDir: uploadDir}
}

// InsertProduct creates a product from a multipart form with an optional image.
func (h *ProductHandler) InsertProduct(c *fiber.Ctx) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if name == "" || description == "" || err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid form fields")
	}

	product := models.Product{
		Name:        name,
		Description: description,
		Price:       price,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		filename, err := utils.SaveUpload(c, file, h.uploadDir)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store image")
		}
		product.Image = filename
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.JSON(product)
}

// GetProducts returns products newest-first with a pagination envelope.
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"page":        pg.Page,
		"limit":       pg.Limit,
		"total_pages": utils.TotalPages(total, pg.Limit),
		"total_count": total,
		"products":    products,
	})
}

// UpdateProduct replaces a product's fields and optionally its image.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	name := c.FormValue("name")
	description := c.FormValue("description")
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if name == "" || description == "" || err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing or invalid form fields")
	}

	updates := map[string]interface{}{
		"name":        name,
		"description": description,
		"price":       price,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		filename, err := utils.SaveUpload(c, file, h.uploadDir)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store image")
		}
		utils.DeleteUpload(h.uploadDir, product.Image)
		updates["image"] = filename
	}

	if err := h.db.Model(&product).Updates(updates).Error; err != nil {
		return err
	}

	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(product)
}

// DeleteProduct removes a product and its stored image.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	utils.DeleteUpload(h.uploadDir, product.Image)

	if err := h.db.Delete(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "product " + id.String() + " deleted successfully",
	})
}
