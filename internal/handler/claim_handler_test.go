package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lennonalatorre/claimflow/internal/config"
	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/handler"
	"github.com/lennonalatorre/claimflow/internal/service"
	"github.com/lennonalatorre/claimflow/mocks"
)

func newClaimHandler(svc service.ClaimService) *handler.ClaimHandler {
	batch := service.NewBatchProcessor(svc, config.BatchConfig{Concurrency: 2, MaxFiles: 10})
	return handler.NewClaimHandler(svc, batch, 25)
}

func multipartUpload(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestClaimHandler_Process_Success(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("Process", mock.Anything, mock.MatchedBy(func(in service.ProcessInput) bool {
		return in.Counselor == "Jordan Reyes" && strings.HasSuffix(in.ImagePath, ".png")
	})).Return(&service.ProcessOutput{}, nil)

	h := newClaimHandler(svc)

	body, contentType := multipartUpload(t, "era.png", map[string]string{
		"counselor": "Jordan Reyes",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/claims/process", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Process(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestClaimHandler_Process_OverridesPassedThrough(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("Process", mock.Anything, mock.MatchedBy(func(in service.ProcessInput) bool {
		return in.Overrides.Copay.Present && in.Overrides.Copay.Value == "25.00" &&
			in.Overrides.Insurance.Present && in.Overrides.Insurance.Value == "80.00" &&
			!in.Overrides.Deductible.Present
	})).Return(&service.ProcessOutput{}, nil)

	h := newClaimHandler(svc)

	body, contentType := multipartUpload(t, "era.png", map[string]string{
		"counselor":         "Jordan Reyes",
		"copay":             "25.00",
		"insurance_payment": "80.00",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/claims/process", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Process(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestClaimHandler_Process_MissingFile(t *testing.T) {
	h := newClaimHandler(new(mocks.MockClaimService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/claims/process", strings.NewReader(""))

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimHandler_Process_UnsupportedFileType(t *testing.T) {
	svc := new(mocks.MockClaimService)
	h := newClaimHandler(svc)

	body, contentType := multipartUpload(t, "era.gif", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/claims/process", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Process")
}

func TestClaimHandler_Process_CounselorRequired(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("Process", mock.Anything, mock.Anything).
		Return(nil, domain.ErrCounselorRequired)

	h := newClaimHandler(svc)

	body, contentType := multipartUpload(t, "era.png", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/claims/process", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "COUNSELOR_REQUIRED", resp.Error.Code)
}

func TestClaimHandler_List(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("List", mock.Anything, "", 0, 20).
		Return([]domain.ClaimRecord{{Counselor: "Jordan Reyes"}}, 1, nil)

	h := newClaimHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
}

func TestClaimHandler_GetByID_InvalidID(t *testing.T) {
	h := newClaimHandler(new(mocks.MockClaimService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClaimHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockClaimService)
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(nil, domain.ErrNotFound)

	h := newClaimHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimHandler_ExportCSV(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("List", mock.Anything, "Jordan Reyes", 0, mock.AnythingOfType("int")).
		Return([]domain.ClaimRecord{
			{Counselor: "Jordan Reyes", Client: "DOE JANE", PayoutToCounselor: 77.01, Warnings: json.RawMessage("[]")},
		}, 1, nil)

	h := newClaimHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/claims/export?counselor=Jordan+Reyes", nil)

	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	out := w.Body.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "BOM for Excel")
	assert.Contains(t, string(out), "DOE JANE")
	assert.Contains(t, string(out), "77.01")
}

func TestClaimHandler_ProcessBatch(t *testing.T) {
	svc := new(mocks.MockClaimService)
	svc.On("Process", mock.Anything, mock.Anything).
		Return(&service.ProcessOutput{}, nil)

	h := newClaimHandler(svc)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range []string{"a.png", "b.jpg"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("counselor", "Jordan Reyes"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/claims/batch", body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	h.ProcessBatch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertNumberOfCalls(t, "Process", 2)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestClaimHandler_Delete(t *testing.T) {
	svc := new(mocks.MockClaimService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)

	h := newClaimHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/claims/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
