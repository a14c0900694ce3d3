package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories/edubot"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
)

const maxMajorUpload = 10 << 20

type MajorHandler struct {
	BaseHandler
	service services.MajorService
	export  services.ExportService
}

func NewMajorHandler(service services.MajorService, export services.ExportService, logger utils.Logger) *MajorHandler {
	return &MajorHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// ===== MAJOR ENDPOINTS =====

// ListMajors lists degree programs
// @Summary List majors
// @Tags majors
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Search by name or code"
// @Param department query string false "Filter by department"
// @Success 200 {object} models.Page[models.Major]
// @Router /majors [get]
func (h *MajorHandler) ListMajors(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), h.parseMajorFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetMajor returns one major with its program structure
// @Router /majors/{id} [get]
func (h *MajorHandler) GetMajor(c *gin.Context) {
	major, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, major)
}

// CreateMajor creates a major from a multipart form (or a JSON body without image)
// @Summary Create major
// @Description Nested fields travel as JSON-encoded parts, the optional image as a file part
// @Tags majors
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.Major
// @Failure 400 {object} ErrorResponse
// @Router /majors [post]
func (h *MajorHandler) CreateMajor(c *gin.Context) {
	major, image, ok := h.readMajor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating major", "code", major.Code)

	created, err := h.service.CreateMajor(c.Request.Context(), major, image)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateMajor replaces a major; same contract as create
// @Router /majors/{id} [put]
func (h *MajorHandler) UpdateMajor(c *gin.Context) {
	id := c.Param("id")
	major, image, ok := h.readMajor(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating major", "major_id", id)

	updated, err := h.service.UpdateMajor(c.Request.Context(), id, major, image)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Router /majors/{id} [delete]
func (h *MajorHandler) DeleteMajor(c *gin.Context) {
	id := c.Param("id")
	h.LogRequest(c, "Deleting major", "major_id", id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Major deleted successfully"})
}

// @Router /majors/export [get]
func (h *MajorHandler) ExportMajors(c *gin.Context) {
	data, err := h.export.ExportMajors(c.Request.Context(), h.parseMajorFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendWorkbook(c, "majors", data)
}

// ===== HELPER METHODS =====

func (h *MajorHandler) parseMajorFilters(c *gin.Context) repositories.MajorFilters {
	return repositories.MajorFilters{
		Page:       h.parseIntQuery(c, "page", 1),
		Limit:      h.parseIntQuery(c, "limit", services.DefaultPageSize),
		Search:     c.Query("search"),
		Department: c.Query("department"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
}

// readMajor answers 400 itself on a malformed body
func (h *MajorHandler) readMajor(c *gin.Context) (*models.Major, *repositories.ImageUpload, bool) {
	if c.ContentType() == gin.MIMEJSON {
		major := models.NewMajor()
		if !h.bindJSON(c, &major) {
			return nil, nil, false
		}
		return &major, nil, true
	}

	if err := c.Request.ParseMultipartForm(maxMajorUpload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid multipart form", Details: err.Error()})
		return nil, nil, false
	}

	major, err := edubot.DecodeMajor(formValues(c.Request.MultipartForm.Value))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid major form", Details: err.Error()})
		return nil, nil, false
	}

	image, err := readImage(c, edubot.ImagePart)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid image upload", Details: err.Error()})
		return nil, nil, false
	}
	return major, image, true
}

// formValues exposes parsed multipart text values to the major decoder
type formValues map[string][]string

func (v formValues) Value(name string) (string, bool) {
	values, ok := v[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func readImage(c *gin.Context, part string) (*repositories.ImageUpload, error) {
	header, err := c.FormFile(part)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return readUpload(header)
}

func readUpload(header *multipart.FileHeader) (*repositories.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return &repositories.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
