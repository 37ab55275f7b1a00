package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/api/handler/v1/response"
	"bookrental/internal/domain"
)

type ReportService interface {
	Dashboard(ctx context.Context, date *time.Time) (domain.DashboardReport, error)
}

type ReportHandler struct {
	svc  ReportService
	uSvc UserService
}

func NewReportHandler(svc ReportService, uSvc UserService) *ReportHandler {
	return &ReportHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleDashboard godoc
// @Summary      Rental dashboard (admin)
// @Description  Aggregates booked/rented/overdue counts, realized revenue and the matching transactions, all-time or for one day.
// @Tags         reports
// @Produce      json
// @Param        date  query     string  false  "day filter (YYYY-MM-DD)"
// @Success      200   {object}  domain.DashboardReport
// @Failure      400   {object}  response.Err
// @Failure      403   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /reports/dashboard [get]
// @Security     BearerAuth
func (h *ReportHandler) HandleDashboard(ctx *gin.Context) {
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

	report, err := h.svc.Dashboard(ctx.Request.Context(), date)
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.Dashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, report)
}
