package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/student-portal-api/internal/models"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

// Envelope represents the common response contract for admin endpoints.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// SearchEnvelope is the legacy contract of the public search and feedback
// endpoints: user-input failures answer HTTP 200 with success=false, which
// the deployed front-end depends on.
type SearchEnvelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    *models.StudentRecord `json:"data,omitempty"`
	Source  string                `json:"source,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SearchHit answers the legacy search contract for a resolved student.
func SearchHit(c *gin.Context, record *models.StudentRecord, source string) {
	c.JSON(http.StatusOK, SearchEnvelope{Success: true, Data: record, Source: source})
}

// SearchFailure maps lookup errors onto the legacy contract: input-class
// errors stay HTTP 200 with success=false; an unreachable source is a 500.
// The underlying cause is never echoed to the client.
func SearchFailure(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := http.StatusOK
	if appErr.Code == appErrors.ErrSourceUnavailable.Code || appErr.Code == appErrors.ErrInternal.Code {
		status = http.StatusInternalServerError
	}
	c.JSON(status, SearchEnvelope{Success: false, Message: appErr.Message})
}
