package handlers

import (
	"net/http"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/gin-gonic/gin"
)

// PolicyHandlers exposes the authorization rules to administrators
type PolicyHandlers struct {
	policySvc domain.PolicyService
	validator *RequestValidator
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService, validator *RequestValidator) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc, validator: validator}
}

// PolicyRequest names a single rule; Role is given without the role_ prefix
type PolicyRequest struct {
	Role     string `json:"role" validate:"required"`
	Resource string `json:"resource" validate:"required"`
	Action   string `json:"action" validate:"required"`
}

// List returns every stored rule as [subject, resource, action]
func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.policySvc.GetPolicies()
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

// Add stores a rule
func (h *PolicyHandlers) Add(c *gin.Context) {
	var r PolicyRequest
	if !bindJSON(c, h.validator, &r) {
		return
	}
	if err := h.policySvc.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove deletes a rule
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r PolicyRequest
	if !bindJSON(c, h.validator, &r) {
		return
	}
	if err := h.policySvc.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
