package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstengine/internal/service"
)

// ClassificationHandler handles HSN/SAC catalog endpoints.
type ClassificationHandler struct {
	classificationService service.ClassificationService
}

// NewClassificationHandler creates a new ClassificationHandler.
func NewClassificationHandler(classificationService service.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{classificationService: classificationService}
}

// List handles GET /api/v1/classifications
// @Summary List classification codes
// @Tags classifications
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} Response{data=[]domain.ClassificationCode,meta=PagMeta} "Active codes ordered by code"
// @Router /classifications [get]
func (h *ClassificationHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	codes, total, err := h.classificationService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, codes, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByCode handles GET /api/v1/classifications/:code
// @Summary Look up a classification code
// @Tags classifications
// @Produce json
// @Param code path string true "4, 6 or 8 digit HSN/SAC code"
// @Success 200 {object} Response{data=domain.ClassificationCode} "Classification code"
// @Failure 404 {object} ErrorResponseBody "Classification code not found"
// @Router /classifications/{code} [get]
func (h *ClassificationHandler) GetByCode(c *gin.Context) {
	code, err := h.classificationService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, code)
}

// Children handles GET /api/v1/classifications/:code/children
// @Summary List the direct children of a classification code
// @Tags classifications
// @Produce json
// @Param code path string true "Parent code"
// @Success 200 {object} Response{data=[]domain.ClassificationCode} "Child codes"
// @Failure 404 {object} ErrorResponseBody "Classification code not found"
// @Router /classifications/{code}/children [get]
func (h *ClassificationHandler) Children(c *gin.Context) {
	children, err := h.classificationService.Children(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, children)
}

// Hierarchy handles GET /api/v1/classifications/:code/hierarchy
// @Summary Get a code and its ancestors
// @Description Returns the code first, followed by its sub-heading and heading when stored.
// @Tags classifications
// @Produce json
// @Param code path string true "Classification code"
// @Success 200 {object} Response{data=[]domain.ClassificationCode} "Code and ancestors"
// @Failure 404 {object} ErrorResponseBody "Classification code not found"
// @Router /classifications/{code}/hierarchy [get]
func (h *ClassificationHandler) Hierarchy(c *gin.Context) {
	chain, err := h.classificationService.Hierarchy(c.Request.Context(), c.Param("code"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, chain)
}

// Create handles POST /api/v1/classifications
// @Summary Create a classification code
// @Description Level, chapter and heading are derived from the code. The nearest stored ancestor becomes the parent.
// @Tags classifications
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param request body service.ClassificationInput true "Classification code"
// @Success 201 {object} Response{data=domain.ClassificationCode} "Classification code created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 409 {object} ErrorResponseBody "Code already exists"
// @Failure 422 {object} ErrorResponseBody "Code is not 4, 6 or 8 digits"
// @Router /classifications [post]
func (h *ClassificationHandler) Create(c *gin.Context) {
	var req service.ClassificationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "code and description are required")
		return
	}

	code, err := h.classificationService.Create(c.Request.Context(), actorFrom(c), &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, code)
}

// Update handles PUT /api/v1/classifications/:id
// @Summary Update a classification code
// @Tags classifications
// @Accept json
// @Produce json
// @Param X-Actor header string false "Actor recorded on the audit event"
// @Param id path string true "Classification code ID (UUID)"
// @Param request body service.ClassificationInput true "Classification code"
// @Success 200 {object} Response{data=domain.ClassificationCode} "Classification code updated"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Classification code not found"
// @Failure 409 {object} ErrorResponseBody "Code already exists"
// @Router /classifications/{id} [put]
func (h *ClassificationHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "invalid classification code ID")
	if !ok {
		return
	}
	var req service.ClassificationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "code and description are required")
		return
	}

	code, err := h.classificationService.Update(c.Request.Context(), actorFrom(c), id, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, code)
}
