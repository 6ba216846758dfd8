package http

import (
	"golang-screener/internal/dto"
	"golang-screener/internal/model"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupJobs(base *echo.Group) {
	v1 := base.Group("/v1/jobs")
	{
		v1.GET("", h.ListJobs)
		v1.POST("/:id/run", h.RunJob)
	}
}

func (h *HttpAPIHandler) ListJobs(c echo.Context) error {
	param := &model.GetJobParam{}
	if jobType := c.QueryParam("type"); jobType != "" {
		param.Types = []string{jobType}
	}

	jobs, err := h.service.JobService.GetJobs(c.Request().Context(), param)
	if err != nil {
		response := dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil)
		return c.JSON(response.Code, response)
	}
	response := dto.NewSuccessResponse("Jobs retrieved", jobs)
	return c.JSON(response.Code, response)
}

func (h *HttpAPIHandler) RunJob(c echo.Context) error {
	jobID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response := dto.NewBadRequestResponse("invalid job id")
		return c.JSON(response.Code, response)
	}

	response := dto.NewBaseResponse(http.StatusOK, "Job triggered", nil)
	if err := h.service.JobService.RunJobNow(c.Request().Context(), uint(jobID)); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}
