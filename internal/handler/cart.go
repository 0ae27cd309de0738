package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aircart/api/internal/model"
	"github.com/aircart/api/internal/service"
	"github.com/aircart/api/internal/store"
	"github.com/aircart/api/pkg/response"
)

type CartHandler struct {
	service   *service.CartService
	validator *validator.Validate
}

func NewCartHandler(svc *service.CartService, v *validator.Validate) *CartHandler {
	return &CartHandler{
		service:   svc,
		validator: v,
	}
}

// Create handles POST /api/carts
// @Summary      Create cart
// @Description  Create an empty cart record to upload audio against
// @Tags         Carts
// @Accept       json
// @Produce      json
// @Param        request body model.CreateCartRequest true "Cart fields"
// @Success      201 {object} model.Cart
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/carts [post]
func (h *CartHandler) Create(c *fiber.Ctx) error {
	var req model.CreateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	cart, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.Created(c, cart)
}

// Get handles GET /api/carts/:cartId
// @Summary      Get cart
// @Description  Get a cart record with its cue points, locators and hashes
// @Tags         Carts
// @Produce      json
// @Param        cartId path string true "Cart ID"
// @Success      200 {object} model.Cart
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/carts/{cartId} [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cartID := c.Params("cartId")
	if cartID == "" {
		return response.ValidationError(c, "Cart ID is required", nil)
	}

	cart, err := h.service.Get(c.Context(), cartID)
	if err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			return response.NotFound(c, "Cart not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, cart)
}

// Delete handles DELETE /api/carts/:cartId
// @Summary      Delete cart
// @Description  Delete a cart record and its stored audio files
// @Tags         Carts
// @Produce      json
// @Param        cartId path string true "Cart ID"
// @Success      204 "No Content"
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/carts/{cartId} [delete]
func (h *CartHandler) Delete(c *fiber.Ctx) error {
	cartID := c.Params("cartId")
	if cartID == "" {
		return response.ValidationError(c, "Cart ID is required", nil)
	}

	if err := h.service.Delete(c.Context(), cartID); err != nil {
		if errors.Is(err, store.ErrCartNotFound) {
			return response.NotFound(c, "Cart not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.NoContent(c)
}
