package account

import (
	"errors"
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

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.GET("/auth/confirm/:token", h.ConfirmEmail)
	rg.POST("/auth/recover", h.RecoverPassword)
	rg.POST("/auth/reset", h.ResetPassword)
}

// RegisterProfileRoutes mounts the self-service endpoints for any
// authenticated account.
func (h *Handler) RegisterProfileRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Profile)
	rg.PATCH("/profile", h.UpdateProfile)
	rg.POST("/profile/password", h.ChangePassword)
}

// RegisterStaffRoutes mounts staff administration; the caller gates the
// group on the staff.manage capability.
func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.POST("/staff", h.CreateStaff)
	rg.GET("/staff", h.ListStaff)
	rg.GET("/staff/:id", h.GetStaff)
	rg.PATCH("/staff/:id", h.UpdateStaff)
	rg.DELETE("/staff/:id", h.DeleteStaff)
}

// RegisterInternRoutes mounts guide-record administration.
func (h *Handler) RegisterInternRoutes(rg *gin.RouterGroup) {
	rg.POST("/interns", h.CreateIntern)
	rg.GET("/interns", h.ListInterns)
	rg.GET("/interns/:id", h.GetIntern)
	rg.PATCH("/interns/:id", h.UpdateIntern)
	rg.DELETE("/interns/:id", h.DeleteIntern)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrAccountDisabled):
			response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled")
		case errors.Is(err, ErrNotConfirmed):
			response.Error(c, http.StatusForbidden, "EMAIL_NOT_CONFIRMED", "Confirm your email address first")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		}
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) ConfirmEmail(c *gin.Context) {
	if err := h.service.ConfirmEmail(c.Request.Context(), c.Param("token")); err != nil {
		response.Error(c, http.StatusBadRequest, "TOKEN_INVALID", "Token is invalid or already used")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"confirmed": true})
}

func (h *Handler) RecoverPassword(c *gin.Context) {
	var req RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.RecoverPassword(c.Request.Context(), req); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start recovery")
		return
	}
	// Always the same answer, known address or not.
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, ErrTokenInvalid):
			response.Error(c, http.StatusBadRequest, "TOKEN_INVALID", "Token is invalid or already used")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset password")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reset": true})
}

func (h *Handler) Profile(c *gin.Context) {
	a, err := h.service.Profile(c.Request.Context(), c.GetInt64("account_id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": a})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("account_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update profile")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": a})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), c.GetInt64("account_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password is wrong")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrEmailTaken):
			response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create staff account")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"account": a})
}

func (h *Handler) ListStaff(c *gin.Context) {
	staff, err := h.service.ListStaff(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list staff")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"staff": staff})
}

func (h *Handler) GetStaff(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	a, err := h.service.GetStaff(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": a})
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.UpdateStaff(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update staff account")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": a})
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	err := h.service.DeleteStaff(c.Request.Context(), c.GetInt64("account_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfDelete), errors.Is(err, ErrAdminImmutable):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete staff account")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) CreateIntern(c *gin.Context) {
	var req CreateInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	i, err := h.service.CreateIntern(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrEmailTaken):
			response.Error(c, http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create intern")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"intern": i})
}

func (h *Handler) ListInterns(c *gin.Context) {
	interns, err := h.service.ListInterns(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list interns")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"interns": interns})
}

func (h *Handler) GetIntern(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	i, err := h.service.GetIntern(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Intern not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"intern": i})
}

func (h *Handler) UpdateIntern(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	i, err := h.service.UpdateIntern(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Intern not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update intern")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"intern": i})
}

func (h *Handler) DeleteIntern(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteIntern(c.Request.Context(), id); err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Intern not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer")
		return 0, false
	}
	return id, true
}
