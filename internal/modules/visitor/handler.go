package visitor

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"museo/internal/pkg/response"
	"museo/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterLogRoutes mounts walk-in registration, open to every back-office
// role.
func (h *Handler) RegisterLogRoutes(rg *gin.RouterGroup) {
	rg.POST("/visitors", h.RegisterVisitor)
}

func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	rg.GET("/visitors", h.ListVisitors)
	rg.GET("/visitors/stats", h.Stats)
	rg.GET("/visitors/:id", h.GetVisitor)
}

func (h *Handler) RegisterManageRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/visitors/:id", h.DeleteVisitor)
}

func (h *Handler) RegisterVisitor(c *gin.Context) {
	var req RegisterVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register visitor")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"visitor": e})
}

func (h *Handler) ListVisitors(c *gin.Context) {
	f := repository.VisitorFilter{
		Search:      c.Query("search"),
		Institution: c.Query("institution"),
	}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse(dateFormat, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		f.Date = &day
	}

	entries, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list visitors")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visitors": entries})
}

func (h *Handler) GetVisitor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer")
		return
	}
	e, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Visitor entry not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visitor": e})
}

func (h *Handler) DeleteVisitor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Visitor entry not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
