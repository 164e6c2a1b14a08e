package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lennonalatorre/claimflow/internal/service"
)

// ReferenceHandler handles counselor and insurer reference list endpoints.
type ReferenceHandler struct {
	refs service.ReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(refs service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

type nameInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateCounselor handles POST /api/v1/counselors
func (h *ReferenceHandler) CreateCounselor(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	counselor, err := h.refs.CreateCounselor(c.Request.Context(), input.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, counselor)
}

// ListCounselors handles GET /api/v1/counselors
func (h *ReferenceHandler) ListCounselors(c *gin.Context) {
	counselors, err := h.refs.ListCounselors(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, counselors)
}

// DeactivateCounselor handles DELETE /api/v1/counselors/:id
func (h *ReferenceHandler) DeactivateCounselor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid counselor ID")
		return
	}

	if err := h.refs.DeactivateCounselor(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "counselor deactivated"})
}

// CreateInsurer handles POST /api/v1/insurers
func (h *ReferenceHandler) CreateInsurer(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	insurer, err := h.refs.CreateInsurer(c.Request.Context(), input.Name)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, insurer)
}

// ListInsurers handles GET /api/v1/insurers
func (h *ReferenceHandler) ListInsurers(c *gin.Context) {
	insurers, err := h.refs.ListInsurers(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, insurers)
}

// DeleteInsurer handles DELETE /api/v1/insurers/:id
func (h *ReferenceHandler) DeleteInsurer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid insurer ID")
		return
	}

	if err := h.refs.DeleteInsurer(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "insurer deleted"})
}
