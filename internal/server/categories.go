package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListCategories handles GET /categories.
func (s *Server) ListCategories(c *gin.Context) {
	var categories []Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// CreateCategory handles POST /categories. Names are unique.
func (s *Server) CreateCategory(c *gin.Context) {
	var body CreateCategoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonMessage(c, http.StatusBadRequest, "invalid category data")
		return
	}

	name := strings.TrimSpace(body.Name)

	var existing Category
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		jsonMessage(c, http.StatusConflict, "Category already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		jsonMessage(c, http.StatusInternalServerError, "could not create category")
		return
	}

	category := Category{Name: name, Icon: body.Icon}
	if err := s.db.Create(&category).Error; err != nil {
		jsonMessage(c, http.StatusInternalServerError, "could not create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}
