package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

// JobOutput is the body of a pipeline run's result envelope. On success it
// carries the result set, count and per-reason skip stats; on failure only
// Error is set.
type JobOutput struct {
	Results interface{}    `json:"results,omitempty"`
	Count   int            `json:"count"`
	Stats   map[string]int `json:"stats,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// AnalyzeRequest is the on-demand analyzer's invocation body.
type AnalyzeRequest struct {
	Ticker string `json:"ticker" validate:"required,uppercase"`
}
