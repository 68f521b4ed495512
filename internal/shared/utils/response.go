package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"srdashboard/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// PageInfo describes one page of a listing.
type PageInfo struct {
	Current      int   `json:"current"`
	Total        int   `json:"total"`
	Count        int   `json:"count"`
	TotalRecords int64 `json:"totalRecords"`
}

// ListResponse represents a paginated list response
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination PageInfo    `json:"pagination"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// CreatedResponse sends a created response
func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: "Resource created successfully",
	}
	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusCreated, response)
}

// ErrorResponseWithError sends an error response based on error type.
// Errors that are not AppErrors are reported as a generic internal error.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		appErr = errors.NewInternalError("Internal server error occurred")
	}

	c.JSON(appErr.Code, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// ListSuccessResponse sends a successful list response with pagination.
// itemCount is the number of items on this page.
func ListSuccessResponse(c *gin.Context, items interface{}, itemCount int, total int64, page, pageCount int) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: ListResponse{
			Items: items,
			Pagination: PageInfo{
				Current:      page,
				Total:        pageCount,
				Count:        itemCount,
				TotalRecords: total,
			},
		},
	})
}

// FileResponse sends content as a downloadable attachment.
func FileResponse(c *gin.Context, fileName, contentType string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, content)
}
