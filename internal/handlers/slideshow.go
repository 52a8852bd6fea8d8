package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/rakshop/internal/models"
	"github.com/example/rakshop/internal/utils"
)

// SlideshowHandler manages promotional slides.
type SlideshowHandler struct {
	db        *gorm.DB
	uploadDir string
}

// NewSlideshowHandler constructs a SlideshowHandler.
func NewSlideshowHandler(db *gorm.DB, uploadDir string) *SlideshowHandler {
	return &SlideshowHandler{db: db, uploadDir: uploadDir}
}

// GetSlides returns all slides, newest first.
func (h *SlideshowHandler) GetSlides(c *fiber.Ctx) error {
	var slides []models.Slide
	if err := h.db.Order("created_at desc").Find(&slides).Error; err != nil {
		return err
	}
	return c.JSON(slides)
}

// InsertSlide creates a slide from a multipart form with an optional image.
func (h *SlideshowHandler) InsertSlide(c *fiber.Ctx) error {
	description := c.FormValue("description")
	if description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing description")
	}

	slide := models.Slide{Description: description}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		filename, err := utils.SaveUpload(c, file, h.uploadDir)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store image")
		}
		slide.Image = filename
	}

	if err := h.db.Create(&slide).Error; err != nil {
		return err
	}

	return c.JSON(slide)
}

// UpdateSlide replaces a slide's description and optionally its image.
func (h *SlideshowHandler) UpdateSlide(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var slide models.Slide
	if err := h.db.First(&slide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "slide not found")
		}
		return err
	}

	description := c.FormValue("description")
	if description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing description")
	}

	updates := map[string]interface{}{"description": description}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		filename, err := utils.SaveUpload(c, file, h.uploadDir)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store image")
		}
		utils.DeleteUpload(h.uploadDir, slide.Image)
		updates["image"] = filename
	}

	if err := h.db.Model(&slide).Updates(updates).Error; err != nil {
		return err
	}

	if err := h.db.First(&slide, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(slide)
}

// DeleteSlide removes a slide and its stored image.
func (h *SlideshowHandler) DeleteSlide(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var slide models.Slide
	if err := h.db.First(&slide, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "slide not found")
		}
		return err
	}

	utils.DeleteUpload(h.uploadDir, slide.Image)

	if err := h.db.Delete(&slide).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "slide deleted successfully"})
}
