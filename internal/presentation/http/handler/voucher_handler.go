package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sheba-pos/outlet-gateway/internal/application/service"
	"github.com/sheba-pos/outlet-gateway/internal/domain/entity"
	"github.com/sheba-pos/outlet-gateway/internal/domain/enum"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/request"
	"github.com/sheba-pos/outlet-gateway/internal/presentation/http/dto/response"
	"github.com/sheba-pos/outlet-gateway/pkg/apperror"
)

// VoucherHandler handles payment voucher HTTP requests
type VoucherHandler struct {
	voucherService *service.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// Submit handles a payment voucher submission
func (h *VoucherHandler) Submit(c *gin.Context) {
	var req request.SubmitVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields := bindingFieldErrors(err); fields != nil {
			response.ValidationError(c, fields)
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	// The form's input constraints: 0 <= amount <= displayed due.
	if req.Amount.IsNegative() || req.Amount.GreaterThan(req.CurrentDue) {
		response.ValidationError(c, []apperror.FieldError{
			{Field: "amount", Message: "must be between 0 and the current due"},
		})
		return
	}

	input := &service.SubmitVoucherInput{
		User: entity.OutletUser{
			Outlet: req.User.Outlet,
			Name:   req.User.Name,
			ASM:    req.User.ASM,
			RSM:    req.User.RSM,
			Zone:   req.User.Zone,
		},
		CurrentDue:  req.CurrentDue,
		Amount:      req.Amount,
		PaymentMode: enum.PaymentMode(req.PaymentMode),
		Bank:        enum.Bank(req.Bank),
		Remarks:     req.Remarks,
		Date:        req.Date,
	}

	receipt, err := h.voucherService.Submit(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment voucher submitted", receipt)
}
