// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Susanoo/app/dto"
	businessflow "github.com/amirphl/Susanoo/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdvertisementHandlerInterface defines the contract for advertisement handlers
type AdvertisementHandlerInterface interface {
	CreateAdvertisement(c fiber.Ctx) error
	GetAdvertisement(c fiber.Ctx) error
}

// AdvertisementHandler handles advertisement-related HTTP requests
type AdvertisementHandler struct {
	adFlow    businessflow.AdvertisementFlow
	validator *validator.Validate
}

// NewAdvertisementHandler creates a new advertisement handler
func NewAdvertisementHandler(adFlow businessflow.AdvertisementFlow) *AdvertisementHandler {
	return &AdvertisementHandler{
		adFlow:    adFlow,
		validator: validator.New(),
	}
}

func (h *AdvertisementHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdvertisementHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateAdvertisement handles the advertisement intake process
// @Summary Create Advertisement
// @Description Create a new advertisement with targeting criteria; audience resolution runs asynchronously
// @Tags Advertisements
// @Accept json
// @Produce json
// @Param request body dto.CreateAdvertisementRequest true "Advertisement creation data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateAdvertisementResponse} "Advertisement created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/advertisements [post]
func (h *AdvertisementHandler) CreateAdvertisement(c fiber.Ctx) error {
	var req dto.CreateAdvertisementRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	// Get authenticated advertiser ID from context
	advertiserID, ok := c.Locals("advertiser_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Advertiser ID not found in context", "MISSING_ADVERTISER_ID", nil)
	}
	req.AdvertiserID = &advertiserID

	result, err := h.adFlow.CreateAdvertisement(h.createRequestContext(c, "/api/v1/advertisements"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidSpec(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid targeting criteria", "INVALID_TARGETING_CRITERIA", err.Error())
		}

		log.Println("Advertisement creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Advertisement creation failed", "ADVERTISEMENT_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Advertisement created successfully", fiber.Map{
		"uuid":       result.UUID,
		"created_at": result.CreatedAt,
	})
}

// GetAdvertisement handles advertisement retrieval by UUID
// @Summary Get Advertisement
// @Description Retrieve one advertisement, including its engagement count once resolved
// @Tags Advertisements
// @Accept json
// @Produce json
// @Param uuid path string true "Advertisement UUID"
// @Success 200 {object} dto.APIResponse{data=dto.AdvertisementResponse} "Advertisement retrieved successfully"
// @Failure 404 {object} dto.APIResponse "Advertisement not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/advertisements/{uuid} [get]
func (h *AdvertisementHandler) GetAdvertisement(c fiber.Ctx) error {
	adUUID := c.Params("uuid")
	if adUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Advertisement UUID is required", "MISSING_ADVERTISEMENT_UUID", nil)
	}

	result, err := h.adFlow.GetAdvertisement(h.createRequestContext(c, "/api/v1/advertisements/:uuid"), adUUID)
	if err != nil {
		if businessflow.IsAdvertisementNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Advertisement not found", "ADVERTISEMENT_NOT_FOUND", nil)
		}

		log.Println("Advertisement retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Advertisement retrieval failed", "ADVERTISEMENT_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Advertisement retrieved successfully", result)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *AdvertisementHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}
