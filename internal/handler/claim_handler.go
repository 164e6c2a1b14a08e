package handler

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lennonalatorre/claimflow/internal/domain"
	"github.com/lennonalatorre/claimflow/internal/ledger"
	"github.com/lennonalatorre/claimflow/internal/pipeline"
	"github.com/lennonalatorre/claimflow/internal/service"
)

const exportPageSize = 10000

// ClaimHandler handles claim processing and reporting endpoints.
type ClaimHandler struct {
	claimService service.ClaimService
	batch        *service.BatchProcessor
	maxFileBytes int64
}

// NewClaimHandler creates a new ClaimHandler. maxFileSizeMB bounds uploaded
// ERA images.
func NewClaimHandler(claimService service.ClaimService, batch *service.BatchProcessor, maxFileSizeMB int64) *ClaimHandler {
	return &ClaimHandler{
		claimService: claimService,
		batch:        batch,
		maxFileBytes: maxFileSizeMB * 1024 * 1024,
	}
}

// Process handles POST /api/v1/claims/process
func (h *ClaimHandler) Process(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	path, err := h.stageUpload(file, header)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer removeStaged(path)

	input := service.ProcessInput{
		ImagePath: path,
		Counselor: c.PostForm("counselor"),
		Insurance: c.PostForm("insurance"),
		Overrides: overridesFromForm(c),
	}

	out, err := h.claimService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// ProcessBatch handles POST /api/v1/claims/batch
func (h *ClaimHandler) ProcessBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "at least one file is required")
		return
	}

	counselor := c.PostForm("counselor")
	inputs := make([]service.ProcessInput, 0, len(files))
	var staged []string
	defer func() {
		for _, p := range staged {
			removeStaged(p)
		}
	}()

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		path, err := h.stageUpload(file, header)
		_ = file.Close()
		if err != nil {
			HandleError(c, err)
			return
		}
		staged = append(staged, path)
		inputs = append(inputs, service.ProcessInput{ImagePath: path, Counselor: counselor})
	}

	result, err := h.batch.Run(c.Request.Context(), inputs)
	if err != nil && result == nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// List handles GET /api/v1/claims
func (h *ClaimHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := h.claimService.List(c.Request.Context(), c.Query("counselor"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/claims/:id
func (h *ClaimHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid claim ID")
		return
	}

	record, err := h.claimService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	// The presigned URL is a nicety; the record stands on its own.
	imageURL := ""
	if record.ImageKey != "" {
		imageURL, err = h.claimService.ImageURL(c.Request.Context(), id)
		if err != nil {
			log.Printf("claimHandler.GetByID: presign image for %s: %v", id, err)
		}
	}

	RespondOK(c, gin.H{
		"claim":     record,
		"image_url": imageURL,
	})
}

// Delete handles DELETE /api/v1/claims/:id
func (h *ClaimHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid claim ID")
		return
	}

	if err := h.claimService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "claim deleted"})
}

// CounselorTotals handles GET /api/v1/claims/totals
func (h *ClaimHandler) CounselorTotals(c *gin.Context) {
	totals, err := h.claimService.CounselorTotals(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, totals)
}

// ExportCSV handles GET /api/v1/claims/export
func (h *ClaimHandler) ExportCSV(c *gin.Context) {
	counselor := c.Query("counselor")
	records, _, err := h.claimService.List(c.Request.Context(), counselor, 0, exportPageSize)
	if err != nil {
		HandleError(c, err)
		return
	}

	scope := counselor
	if scope == "" {
		scope = "all"
	}
	filename := ledger.BuildFilename("claims", scope)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if _, err := c.Writer.Write(ledger.BOM); err != nil {
		return
	}
	w := ledger.NewExportWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		log.Printf("claimHandler.ExportCSV: %v", err)
		return
	}
	if err := w.WriteRecords(records); err != nil {
		log.Printf("claimHandler.ExportCSV: %v", err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("claimHandler.ExportCSV: %v", err)
	}
}

// stageUpload validates the uploaded file and writes it to a temp path the
// recognition engine can read.
func (h *ClaimHandler) stageUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if h.maxFileBytes > 0 && header.Size > h.maxFileBytes {
		return "", domain.ErrFileTooLarge
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return "", domain.ErrUnsupportedFileType
	}
	// Clients that don't sniff MIME send application/octet-stream; the
	// extension check above is authoritative in that case.
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if _, ok := domain.AllowedContentTypes[ct]; !ok {
			return "", domain.ErrUnsupportedFileType
		}
	}

	dst, err := os.CreateTemp("", "claimflow-*."+ext)
	if err != nil {
		return "", fmt.Errorf("claimHandler.stageUpload: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := dst.ReadFrom(file); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("claimHandler.stageUpload: %w", err)
	}
	return dst.Name(), nil
}

func removeStaged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("claimHandler: remove staged upload %s: %v", path, err)
	}
}

// overridesFromForm reads optional operator corrections from the form.
func overridesFromForm(c *gin.Context) pipeline.Overrides {
	var ov pipeline.Overrides
	if v := strings.TrimSpace(c.PostForm("copay")); v != "" {
		ov.Copay = domain.NewField(v)
	}
	if v := strings.TrimSpace(c.PostForm("deductible")); v != "" {
		ov.Deductible = domain.NewField(v)
	}
	if v := strings.TrimSpace(c.PostForm("insurance_payment")); v != "" {
		ov.Insurance = domain.NewField(v)
	}
	return ov
}
