package donation

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"museo/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRecordRoutes mounts donation intake and consultation.
func (h *Handler) RegisterRecordRoutes(rg *gin.RouterGroup) {
	rg.POST("/donations/money", h.CreateMoney)
	rg.GET("/donations/money", h.ListMoney)
	rg.GET("/donations/money/:id", h.GetMoney)

	rg.POST("/donations/goods", h.CreateGoods)
	rg.GET("/donations/goods", h.ListGoods)
	rg.GET("/donations/goods/:id", h.GetGoods)

	rg.GET("/donations/stats", h.Stats)
}

// RegisterReviewRoutes mounts goods-donation resolution and record removal.
func (h *Handler) RegisterReviewRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/donations/goods/:id/review", h.ReviewGoods)
	rg.DELETE("/donations/money/:id", h.DeleteMoney)
	rg.DELETE("/donations/goods/:id", h.DeleteGoods)
}

// RegisterWebhook mounts the gateway callback outside the auth group;
// Stripe signs its own requests.
func (h *Handler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/donations/webhook", h.Webhook)
}

func (h *Handler) CreateMoney(c *gin.Context) {
	var req CreateMoneyDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.CreateMoney(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create donation")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"donation": resp})
}

func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable payload")
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, ErrBadWebhook) {
			response.Error(c, http.StatusBadRequest, "WEBHOOK_REJECTED", "Signature verification failed")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process webhook")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"received": true})
}

func (h *Handler) ListMoney(c *gin.Context) {
	donations, err := h.service.ListMoney(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list donations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"donations": donations})
}

func (h *Handler) GetMoney(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	d, err := h.service.GetMoney(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Donation not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"donation": d})
}

func (h *Handler) CreateGoods(c *gin.Context) {
	var req CreateGoodsDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.CreateGoods(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create donation")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"donation": d})
}

func (h *Handler) ListGoods(c *gin.Context) {
	donations, err := h.service.ListGoods(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list donations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"donations": donations})
}

func (h *Handler) GetGoods(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	d, err := h.service.GetGoods(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Donation not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"donation": d})
}

func (h *Handler) ReviewGoods(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ReviewGoodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.ReviewGoods(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Donation not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to review donation")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"donation": d})
}

func (h *Handler) DeleteMoney(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteMoney(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Donation not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) DeleteGoods(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteGoods(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Donation not found")
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
