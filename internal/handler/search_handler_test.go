package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/internal/service"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
	"github.com/noor-academy/student-portal-api/pkg/response"
)

type fakeLookupSrv struct {
	result   *service.LookupResult
	err      error
	lastCode string
}

func (f *fakeLookupSrv) Lookup(_ context.Context, rawCode string) (*service.LookupResult, error) {
	f.lastCode = rawCode
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func performSearch(t *testing.T, h *SearchHandler, body string) (*httptest.ResponseRecorder, response.SearchEnvelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Search(c)

	var envelope response.SearchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func TestSearchHandlerHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeLookupSrv{result: &service.LookupResult{
		Record: &models.StudentRecord{StudentCode: "G4001", DisplayName: "أحمد", GradeLevel: models.GradeG4},
		Source: service.SourceLegacy,
	}}
	h := NewSearchHandler(srv, nil)

	rec, envelope := performSearch(t, h, `{"code":"G4001"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)
	assert.Equal(t, "legacy", envelope.Source)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, "G4001", envelope.Data.StudentCode)
	assert.Equal(t, "G4001", srv.lastCode)
}

func TestSearchHandlerNotFoundIs200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeLookupSrv{err: appErrors.ErrStudentNotFound}, nil)

	rec, envelope := performSearch(t, h, `{"code":"G4999"}`)

	assert.Equal(t, http.StatusOK, rec.Code, "user errors keep the legacy 200 status")
	assert.False(t, envelope.Success)
	assert.Equal(t, "لا يوجد طالب بهذا الكود", envelope.Message)
	assert.Nil(t, envelope.Data)
}

func TestSearchHandlerInvalidInputIs200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeLookupSrv{err: appErrors.ErrInvalidCode}, nil)

	rec, envelope := performSearch(t, h, `{"code":""}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "برجاء كتابة الكود", envelope.Message)
}

func TestSearchHandlerUnknownPrefixIs200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeLookupSrv{err: appErrors.ErrUnknownGradePrefix}, nil)

	rec, envelope := performSearch(t, h, `{"code":"XY1234"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.Message)
}

func TestSearchHandlerSourceUnavailableIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeLookupSrv{err: appErrors.ErrSourceUnavailable}, nil)

	rec, envelope := performSearch(t, h, `{"code":"G4001"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code, "system failures must not masquerade as user errors")
	assert.False(t, envelope.Success)
	assert.Equal(t, "حدث خطأ في البحث", envelope.Message)
}

func TestSearchHandlerMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeLookupSrv{}, nil)

	rec, envelope := performSearch(t, h, `{not json`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, envelope.Success)
	assert.Equal(t, "برجاء كتابة الكود", envelope.Message)
}

func TestSearchHandlerUsage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeLookupSrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/search", nil)

	h.Usage(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POST")
}
