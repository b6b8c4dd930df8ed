package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sheba-pos/outlet-gateway/internal/application/service"
	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/request"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/response"
)

// OfficeReturnHandler handles office-return HTTP requests
type OfficeReturnHandler struct {
	returnService *service.OfficeReturnService
}

// NewOfficeReturnHandler creates a new office-return handler
func NewOfficeReturnHandler(returnService *service.OfficeReturnService) *OfficeReturnHandler {
	return &OfficeReturnHandler{returnService: returnService}
}

// CreateSession opens a return session for one operator at one outlet
func (h *OfficeReturnHandler) CreateSession(c *gin.Context) {
	var req request.CreateReturnSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := bindingFieldErrors(err); fields != nil {
			response.ValidationError(c, fields)
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	sess := h.returnService.CreateSession(entity.OutletUser{
		Outlet: req.Outlet,
		Name:   req.User,
	})

	response.Created(c, "Return session created", gin.H{
		"session_id": sess.ID,
		"outlet":     sess.Outlet,
	})
}

// Search runs one search cycle and returns the session's visible rows
func (h *OfficeReturnHandler) Search(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req request.SearchReturnRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	rows, err := h.returnService.Search(c.Request.Context(), id, req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Search results", rows)
}

// SetQuantity records the pending return quantity for one row
func (h *OfficeReturnHandler) SetQuantity(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req request.SetReturnQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := bindingFieldErrors(err); fields != nil {
			response.ValidationError(c, fields)
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.returnService.SetQuantity(id, c.Param("barcode"), req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity recorded", nil)
}

// SubmitRow persists one row's office return
func (h *OfficeReturnHandler) SubmitRow(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.returnService.SubmitRow(c.Request.Context(), id, c.Param("barcode"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Office return updated", result)
}
