package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"plate-service/internal/http/middleware"
	"plate-service/internal/service"
)

type Handler struct {
	plateService *service.PlateService
	log          zerolog.Logger
}

func NewHandler(plateService *service.PlateService, log zerolog.Logger) *Handler {
	return &Handler{
		plateService: plateService,
		log:          log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	plates := protected.Group("/plates")
	{
		plates.POST("/validate", h.validatePlate)
		plates.POST("/format", h.formatPlate)
		plates.POST("/sidecode", h.findSideCode)
		plates.GET("/countries", h.listCountries)
		plates.GET("/countries/:country/sidecodes", h.getSideCodes)
		plates.PUT("/countries/:country/sidecodes", h.replaceSideCodes)
		plates.GET("/checks", h.listChecks)
		plates.GET("/checks/:id", h.getCheck)
	}
}

type plateRequest struct {
	Plate        string `json:"plate" binding:"required"`
	Country      string `json:"country" binding:"required"`
	IgnoreDashes *bool  `json:"ignore_dashes"`
}

func (r plateRequest) input(defaultIgnoreDashes bool) service.PlateInput {
	ignoreDashes := defaultIgnoreDashes
	if r.IgnoreDashes != nil {
		ignoreDashes = *r.IgnoreDashes
	}
	return service.PlateInput{
		Plate:        r.Plate,
		Country:      r.Country,
		IgnoreDashes: ignoreDashes,
	}
}

func (h *Handler) validatePlate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req plateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.plateService.Validate(c.Request.Context(), principal, req.input(false))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) formatPlate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req plateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.plateService.Format(c.Request.Context(), principal, req.input(true))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) findSideCode(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req plateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.plateService.FindSideCode(c.Request.Context(), principal, req.input(false))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) listCountries(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.plateService.Countries()))
}

func (h *Handler) getSideCodes(c *gin.Context) {
	country := strings.TrimSpace(c.Param("country"))
	if country == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid country"))
		return
	}

	result, err := h.plateService.SideCodes(country)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) replaceSideCodes(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		SideCodes []string `json:"side_codes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	result, err := h.plateService.ReplaceSideCodes(c.Request.Context(), principal, c.Param("country"), req.SideCodes)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) listChecks(c *gin.Context) {
	input := service.ListChecksInput{
		Country:   strings.TrimSpace(c.Query("country")),
		Plate:     strings.TrimSpace(c.Query("plate")),
		Operation: strings.TrimSpace(c.Query("operation")),
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("invalid limit"))
			return
		}
		input.Limit = limit
	}

	checks, err := h.plateService.ListChecks(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(checks))
}

func (h *Handler) getCheck(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid check id"))
		return
	}

	check, err := h.plateService.GetCheck(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(check))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUnsupportedSideCode):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	case errors.Is(err, service.ErrStoreNotConfigured):
		c.JSON(http.StatusNotImplemented, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
