package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/student-portal-api/internal/repository"
	"github.com/noor-academy/student-portal-api/internal/service"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
	"github.com/noor-academy/student-portal-api/pkg/response"
)

// StudentHandler exposes admin registration endpoints.
type StudentHandler struct {
	students *service.StudentService
	exports  *service.ExportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, exports *service.ExportService) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// List godoc
// @Summary List registered students
// @Tags Students
// @Produce json
// @Param grade query string false "Filter by grade level (G4, G5, G6, P1)"
// @Param confirmed query bool false "Filter by payment confirmation"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /api/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter repository.StudentFilter
	filter.GradeLevel = c.Query("grade")
	if confirmed := c.Query("confirmed"); confirmed != "" {
		if confirmed == "true" {
			v := true
			filter.Confirmed = &v
		} else if confirmed == "false" {
			v := false
			filter.Confirmed = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Create godoc
// @Summary Register a new student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /api/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update a registered student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.UpdateStudentRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /api/students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Export godoc
// @Summary Download the student roster
// @Tags Students
// @Produce application/octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /api/students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatCSV)
	export, err := h.exports.Roster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, export.ContentType, export.Content)
}
