package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookrental/internal/api/handler/v1/request"
	"bookrental/internal/api/handler/v1/response"
	"bookrental/internal/domain"
	"bookrental/internal/service"
)

type RentalService interface {
	Rent(ctx context.Context, userID, bookID uint, days int) (domain.Rental, error)
	Pickup(ctx context.Context, rentalID uint) (domain.Rental, error)
	Return(ctx context.Context, rentalID uint) (domain.Rental, error)
	Cancel(ctx context.Context, rentalID, requesterID uint) (domain.Rental, error)
	History(ctx context.Context, userID uint) ([]domain.Rental, error)
}

type RentalHandler struct {
	svc  RentalService
	uSvc UserService
}

func NewRentalHandler(svc RentalService, uSvc UserService) *RentalHandler {
	return &RentalHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRent godoc
// @Summary      Reserve a copy of a book
// @Description  Books a copy for the authenticated member. Fails when the member holds an overdue rental or no copy is available.
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Param        request  body      request.RentRequest  true  "request body"
// @Success      201      {object}  domain.Rental
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rentals [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleRent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rental, err := h.svc.Rent(ctx.Request.Context(), user.ID, req.BookID, req.Days)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDuration):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrRenterBlocked):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrBookUnavailable):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrBookNotFound):
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", req.BookID))
		default:
			err = fmt.Errorf("v1.HandleRent -> h.svc.Rent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, rental)
}

// HandlePickup godoc
// @Summary      Hand a booked copy over (admin)
// @Description  Moves a booked rental to rented. Requires the rental's payment to be confirmed.
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int  true  "rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /rentals/{rentalID}/pickup [post]
// @Security     BearerAuth
func (h *RentalHandler) HandlePickup(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	rentalID, err := parseIDParam(ctx, "rentalID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rental, err := h.svc.Pickup(ctx.Request.Context(), rentalID)
	if err != nil {
		renderRentalErr(ctx, err, rentalID, "v1.HandlePickup -> h.svc.Pickup")
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

// HandleReturn godoc
// @Summary      Take a rented copy back (admin)
// @Description  Moves a rented rental to returned and records the late fee, if any.
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int  true  "rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /rentals/{rentalID}/return [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleReturn(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	rentalID, err := parseIDParam(ctx, "rentalID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rental, err := h.svc.Return(ctx.Request.Context(), rentalID)
	if err != nil {
		renderRentalErr(ctx, err, rentalID, "v1.HandleReturn -> h.svc.Return")
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

// HandleCancel godoc
// @Summary      Cancel a booked rental
// @Description  Cancels the authenticated member's own booked rental. A rental with a submitted payment enters refund verification.
// @Tags         rentals
// @Produce      json
// @Param        rentalID  path      int  true  "rental ID"
// @Success      200       {object}  domain.Rental
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /rentals/{rentalID}/cancel [post]
// @Security     BearerAuth
func (h *RentalHandler) HandleCancel(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rentalID, err := parseIDParam(ctx, "rentalID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rental, err := h.svc.Cancel(ctx.Request.Context(), rentalID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotRentalOwner) {
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
			return
		}

		renderRentalErr(ctx, err, rentalID, "v1.HandleCancel -> h.svc.Cancel")
		return
	}

	ctx.JSON(http.StatusOK, rental)
}

// HandleGetHistory godoc
// @Summary      Get a member's rental history
// @Description  Returns the authenticated member's rentals, newest first. Admins may pass ?user_id= to look at another member.
// @Tags         rentals
// @Produce      json
// @Param        user_id  query     int  false  "user ID (admin only)"
// @Success      200      {array}   domain.Rental
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rentals [get]
// @Security     BearerAuth
func (h *RentalHandler) HandleGetHistory(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID := user.ID
	if raw := ctx.Query("user_id"); raw != "" {
		if !user.IsAdmin() {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot view other members' rentals", user.ID)))
			return
		}

		parsed, err := parseQueryID(raw, "user_id")
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		userID = parsed
	}

	rentals, err := h.svc.History(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetHistory -> h.svc.History -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rentals)
}

// renderRentalErr maps the rental state machine's errors onto HTTP statuses.
func renderRentalErr(ctx *gin.Context, err error, rentalID uint, op string) {
	switch {
	case errors.Is(err, service.ErrRentalNotFound):
		response.RenderErr(ctx, response.ErrNotFound("rental", "ID", rentalID))
	case errors.Is(err, service.ErrInvalidTransition):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
