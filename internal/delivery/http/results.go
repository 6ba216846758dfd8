package http

import (
	"golang-screener/internal/dto"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupResults(base *echo.Group) {
	v1 := base.Group("/v1/results")
	{
		v1.GET("/method1", h.GetMethod1Results)
		v1.GET("/method2", h.GetMethod2Results)
		v1.GET("/merged", h.GetMergedResults)
	}
}

func (h *HttpAPIHandler) GetMethod1Results(c echo.Context) error {
	results, err := h.service.ResultService.GetMethod1Results(
		c.Request().Context(), c.QueryParam("date"), c.QueryParam("passed_only") == "true")
	if err != nil {
		response := dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil)
		return c.JSON(response.Code, response)
	}
	response := dto.NewSuccessResponse("Method-1 results retrieved", results)
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) GetMethod2Results(c echo.Context) error {
	results, err := h.service.ResultService.GetMethod2Results(
		c.Request().Context(), c.QueryParam("date"), c.QueryParam("passed_only") == "true")
	if err != nil {
		response := dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil)
		return c.JSON(response.Code, response)
	}
	response := dto.NewSuccessResponse("Method-2 results retrieved", results)
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) GetMergedResults(c echo.Context) error {
	results, err := h.service.ResultService.GetMergedResults(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		response := dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil)
		return c.JSON(response.Code, response)
	}
	response := dto.NewSuccessResponse("Merged results retrieved", results)
	return c.JSON(response.Code, response)
}
