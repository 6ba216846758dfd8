package http

import (
	"golang-screener/internal/dto"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAnalyzer(base *echo.Group) {
	v1 := base.Group("/v1/analyze")
	{
		v1.POST("", h.AnalyzeStock)
	}
}

func (h *HttpAPIHandler) AnalyzeStock(c echo.Context) error {
	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		response := dto.NewBadRequestResponse("invalid request body")
		return c.JSON(response.Code, response)
	}
	if err := h.validator.Struct(&req); err != nil {
		response := dto.NewBadRequestResponse(err.Error())
		return c.JSON(response.Code, response)
	}

	report, err := h.service.AnalyzerService.AnalyzeStock(c.Request().Context(), req.Ticker)
	if err != nil {
		response := dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil)
		return c.JSON(response.Code, response)
	}
	response := dto.NewSuccessResponse("Stock analyzed", report)
	return c.JSON(response.Code, response)
}
