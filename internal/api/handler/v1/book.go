package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookrental/internal/api/handler/v1/request"
	"bookrental/internal/api/handler/v1/response"
	"bookrental/internal/domain"
	"bookrental/internal/service"
)

type BookService interface {
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	GetByID(ctx context.Context, id uint) (domain.Book, error)
	Search(ctx context.Context, title string) ([]domain.Book, error)
	Update(ctx context.Context, book domain.Book) (domain.Book, error)
	Delete(ctx context.Context, id uint) error
}

type BookHandler struct {
	svc  BookService
	uSvc UserService
}

func NewBookHandler(svc BookService, uSvc UserService) *BookHandler {
	return &BookHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSearchBooks godoc
// @Summary      List books, optionally filtered by title
// @Tags         books
// @Produce      json
// @Param        title  query     string  false  "title filter"
// @Success      200    {array}   domain.Book
// @Failure      500    {object}  response.Err
// @Router       /books [get]
// @Security     BearerAuth
func (h *BookHandler) HandleSearchBooks(ctx *gin.Context) {
	books, err := h.svc.Search(ctx.Request.Context(), ctx.Query("title"))
	if err != nil {
		err = fmt.Errorf("v1.HandleSearchBooks -> h.svc.Search -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, books)
}

// HandleGetBook godoc
// @Summary      Get a book by ID
// @Tags         books
// @Produce      json
// @Param        bookID  path      int  true  "book ID"
// @Success      200     {object}  domain.Book
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /books/{bookID} [get]
// @Security     BearerAuth
func (h *BookHandler) HandleGetBook(ctx *gin.Context) {
	bookID, err := parseIDParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.GetByID(ctx.Request.Context(), bookID)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBook -> h.svc.GetByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, book)
}

// HandleCreateBook godoc
// @Summary      Create a book (admin)
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateBookRequest  true  "request body"
// @Success      201      {object}  domain.Book
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /books [post]
// @Security     BearerAuth
func (h *BookHandler) HandleCreateBook(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var req request.CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.Create(ctx.Request.Context(), domain.Book{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Stock: domain.Stock{
			Total: req.StockTotal,
		},
		Pricing: domain.Pricing{
			Day3: req.PriceDay3,
			Day5: req.PriceDay5,
			Day7: req.PriceDay7,
		},
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPricing) || errors.Is(err, service.ErrInvalidStock) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateBook -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, book)
}

// HandleUpdateBook godoc
// @Summary      Update a book (admin)
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        bookID   path      int                        true  "book ID"
// @Param        request  body      request.UpdateBookRequest  true  "request body"
// @Success      200      {object}  domain.Book
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /books/{bookID} [put]
// @Security     BearerAuth
func (h *BookHandler) HandleUpdateBook(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	bookID, err := parseIDParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateBookRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	book, err := h.svc.Update(ctx.Request.Context(), domain.Book{
		ID:          bookID,
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Pricing: domain.Pricing{
			Day3: req.PriceDay3,
			Day5: req.PriceDay5,
			Day7: req.PriceDay7,
		},
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPricing) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateBook -> h.svc.Update -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, book)
}

// HandleDeleteBook godoc
// @Summary      Delete a book (admin)
// @Tags         books
// @Produce      json
// @Param        bookID  path  int  true  "book ID"
// @Success      204
// @Failure      400     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /books/{bookID} [delete]
// @Security     BearerAuth
func (h *BookHandler) HandleDeleteBook(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	bookID, err := parseIDParam(ctx, "bookID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = h.svc.Delete(ctx.Request.Context(), bookID); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("book", "ID", bookID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteBook -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %v %q", name, raw)
	}

	return uint(id), nil
}

func parseQueryID(raw, name string) (uint, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %v %q", name, raw)
	}

	return uint(id), nil
}
