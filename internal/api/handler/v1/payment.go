package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/api/handler/v1/request"
	"bookrental/internal/api/handler/v1/response"
	"bookrental/internal/domain"
	"bookrental/internal/service"
)

const dateLayout = "2006-01-02"

type PaymentService interface {
	Submit(ctx context.Context, userID, rentalID uint, amount int, slipURL string) (domain.Payment, error)
	Verify(ctx context.Context, paymentID uint, approved bool) (domain.Payment, error)
	ListPending(ctx context.Context, date *time.Time) ([]domain.Payment, error)
}

type PaymentHandler struct {
	svc  PaymentService
	uSvc UserService
}

func NewPaymentHandler(svc PaymentService, uSvc UserService) *PaymentHandler {
	return &PaymentHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSubmitPayment godoc
// @Summary      Submit a payment slip for a rental
// @Description  Records a payment claim against the authenticated member's own rental and queues it for verification.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.SubmitPaymentRequest  true  "request body"
// @Success      201      {object}  domain.Payment
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /payments [post]
// @Security     BearerAuth
func (h *PaymentHandler) HandleSubmitPayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payment, err := h.svc.Submit(ctx.Request.Context(), user.ID, req.RentalID, req.Amount, req.SlipURL)
	if err != nil {
		if errors.Is(err, service.ErrRentalNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("rental", "ID", req.RentalID))
			return
		}
		if errors.Is(err, service.ErrNotRentalOwner) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleSubmitPayment -> h.svc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, payment)
}

// HandleVerifyPayment godoc
// @Summary      Approve or reject a payment claim (admin)
// @Description  Resolves a pending claim. A claim under refund verification settles the refund; any other claim settles the rent payment.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        paymentID  path      int                           true  "payment ID"
// @Param        request    body      request.VerifyPaymentRequest  true  "request body"
// @Success      200        {object}  domain.Payment
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /payments/{paymentID}/verify [post]
// @Security     BearerAuth
func (h *PaymentHandler) HandleVerifyPayment(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	paymentID, err := parseIDParam(ctx, "paymentID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.VerifyPaymentRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payment, err := h.svc.Verify(ctx.Request.Context(), paymentID, *req.Approved)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", paymentID))
			return
		}
		if errors.Is(err, service.ErrRentalNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("rental", "paymentID", paymentID))
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleVerifyPayment -> h.svc.Verify -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payment)
}

// HandleListPendingPayments godoc
// @Summary      List payment claims awaiting verification (admin)
// @Description  Without a date, returns every claim currently awaiting a verdict. With ?date=YYYY-MM-DD, returns that day's claims across all outcomes.
// @Tags         payments
// @Produce      json
// @Param        date  query     string  false  "day filter (YYYY-MM-DD)"
// @Success      200   {array}   domain.Payment
// @Failure      400   {object}  response.Err
// @Failure      403   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /payments/pending [get]
// @Security     BearerAuth
func (h *PaymentHandler) HandleListPendingPayments(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	date, err := parseDateQuery(ctx.Query("date"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	payments, err := h.svc.ListPending(ctx.Request.Context(), date)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPendingPayments -> h.svc.ListPending -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payments)
}

func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}

	return &date, nil
}
