package visit

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"museo/internal/pkg/response"
	"museo/internal/repository"
	"museo/internal/schedule"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterReadRoutes mounts the consultation endpoints; the caller gates
// the group on the read capability.
func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	rg.GET("/visits", h.ListVisits)
	rg.GET("/visits/availability", h.DayAvailability)
	rg.GET("/visits/suggestions", h.SuggestSlots)
	rg.GET("/visits/stats", h.Stats)
	rg.GET("/visits/:id", h.GetVisit)
}

// RegisterManageRoutes mounts the mutating endpoints.
func (h *Handler) RegisterManageRoutes(rg *gin.RouterGroup) {
	rg.POST("/visits", h.CreateVisit)
	rg.PATCH("/visits/:id/status", h.UpdateStatus)
	rg.DELETE("/visits/:id", h.DeleteVisit)
}

func (h *Handler) CreateVisit(c *gin.Context) {
	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, figures, err := h.service.CreateVisit(c.Request.Context(), req)
	if err != nil {
		h.writeVisitError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"visit":    v,
		"capacity": figures,
	})
}

func (h *Handler) ListVisits(c *gin.Context) {
	f := repository.VisitFilter{
		Search:      c.Query("search"),
		Institution: c.Query("institution"),
		Status:      c.Query("status"),
	}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse(dateFormat, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		f.Date = &day
	}

	visits, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list visits")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visits": visits})
}

func (h *Handler) GetVisit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Visit not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": v})
}

func (h *Handler) DayAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}

	day, err := h.service.DayAvailability(c.Request.Context(), date)
	if err != nil {
		h.writeVisitError(c, err)
		return
	}
	response.Success(c, http.StatusOK, day)
}

func (h *Handler) SuggestSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date query parameter is required")
		return
	}
	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "party_size must be an integer")
		return
	}

	slots, err := h.service.SuggestSlots(c.Request.Context(), date, partySize)
	if err != nil {
		h.writeVisitError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.writeVisitError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visit": v})
}

func (h *Handler) DeleteVisit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeVisitError(c, err)
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

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer")
		return 0, false
	}
	return id, true
}

// writeVisitError maps service errors onto the response envelope. Policy
// rejections and capacity conflicts carry their figures in details.
func (h *Handler) writeVisitError(c *gin.Context, err error) {
	var policyErr *schedule.PolicyError
	var capErr *repository.CapacityExceededError

	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &policyErr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "SCHEDULE_REJECTED",
			policyErr.Message, gin.H{"rule": policyErr.Rule.Error()})
	case errors.As(err, &capErr):
		response.ErrorWithDetails(c, http.StatusConflict, "CAPACITY_EXCEEDED",
			"Not enough capacity in the selected block", CapacityFigures{
				Occupied:    capErr.Occupied,
				Remaining:   capErr.Remaining,
				MaxCapacity: capErr.MaxCapacity,
			})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrReasonMissing):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Visit not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
