package servicerequest

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"srdashboard/internal/application/servicerequest/usecases"
	"srdashboard/internal/domain/user"
	"srdashboard/internal/interfaces/http/middleware"
	"srdashboard/internal/shared/constants"
	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/utils"
)

// multipartOverhead leaves room for form fields next to the largest accepted file.
const multipartOverhead int64 = 1 << 20

type Handler struct {
	createUC usecases.CreateServiceRequestExecutor
	updateUC usecases.UpdateServiceRequestExecutor
	deleteUC usecases.DeleteServiceRequestExecutor
	getUC    usecases.GetServiceRequestExecutor
	listUC   usecases.ListServiceRequestsExecutor
	statsUC  usecases.GetStatsExecutor
	exportUC usecases.ExportServiceRequestsExecutor
	uploadUC usecases.UploadRCAFileExecutor
	maxBytes int64
	logger   logger.Interface
}

func NewHandler(
	createUC usecases.CreateServiceRequestExecutor,
	updateUC usecases.UpdateServiceRequestExecutor,
	deleteUC usecases.DeleteServiceRequestExecutor,
	getUC usecases.GetServiceRequestExecutor,
	listUC usecases.ListServiceRequestsExecutor,
	statsUC usecases.GetStatsExecutor,
	exportUC usecases.ExportServiceRequestsExecutor,
	uploadUC usecases.UploadRCAFileExecutor,
	maxBytes int64,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		getUC:    getUC,
		listUC:   listUC,
		statsUC:  statsUC,
		exportUC: exportUC,
		uploadUC: uploadUC,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ListServiceRequests handles GET /api/requests
// @Summary List service requests
// @Description Newest first. serviceNumber matches a case-insensitive substring; status "all" means unrestricted.
// @Tags ServiceRequests
// @Produce json
// @Security BearerAuth
// @Param serviceNumber query string false "Service number substring"
// @Param status query string false "Status filter" Enums(all, open, in-progress, closed)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse{items=[]dto.ServiceRequestDTO}}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /requests [get]
func (h *Handler) ListServiceRequests(c *gin.Context) {
	p := utils.ParsePagination(c)

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListServiceRequestsQuery{
		ServiceNumber: c.Query("serviceNumber"),
		Status:        c.Query("status"),
		Page:          p.Page,
		PageSize:      p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.ItemCount, result.Total, result.Page, result.PageCount)
}

// GetStats handles GET /api/requests/stats
// @Summary Service request statistics
// @Tags ServiceRequests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=dto.StatsDTO}
// @Router /requests/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// ExportServiceRequests handles GET /api/requests/export
// @Summary Export all service requests as CSV
// @Tags ServiceRequests
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 403 {object} utils.APIResponse
// @Router /requests/export [get]
func (h *Handler) ExportServiceRequests(c *gin.Context) {
	file, err := h.exportUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.FileResponse(c, file.FileName, file.ContentType, file.Content)
}

// UploadRCAFile handles POST /api/requests/upload-rca
// @Summary Upload an RCA file
// @Description The returned path can be referenced once as rcaFilePath on create or update.
// @Tags ServiceRequests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param rcaFile formData file true "Attachment"
// @Success 200 {object} utils.APIResponse{data=dto.UploadDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Router /requests/upload-rca [post]
func (h *Handler) UploadRCAFile(c *gin.Context) {
	h.limitBody(c)

	upload, err := h.readUpload(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if upload == nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("No file uploaded"))
		return
	}

	result, err := h.uploadUC.Execute(c.Request.Context(), usecases.UploadRCAFileCommand{File: *upload})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "File uploaded successfully", result)
}

// GetServiceRequest handles GET /api/requests/:id
// @Summary Get a service request
// @Tags ServiceRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service request ID" example(sr_xK9mP2vL3nQ)
// @Success 200 {object} utils.APIResponse{data=dto.ServiceRequestDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /requests/{id} [get]
func (h *Handler) GetServiceRequest(c *gin.Context) {
	sid, err := parseSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetServiceRequestQuery{SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CreateServiceRequest handles POST /api/requests
// @Summary Create a service request
// @Description Accepts JSON or multipart/form-data with an optional rcaFile part.
// @Tags ServiceRequests
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ServiceRequestRequest true "Service request fields"
// @Success 201 {object} utils.APIResponse{data=dto.ServiceRequestDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Router /requests [post]
func (h *Handler) CreateServiceRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("authentication required"))
		return
	}

	fields, upload, err := h.bindRequest(c)
	if err != nil {
		h.logger.Warnw("invalid request body for create service request", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateServiceRequestCommand{
		Fields: fields,
		File:   upload,
		Actor:  actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result.Request, "Service request created successfully")
}

// UpdateServiceRequest handles PUT /api/requests/:id
// @Summary Replace a service request
// @Tags ServiceRequests
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service request ID"
// @Param request body ServiceRequestRequest true "Service request fields"
// @Success 200 {object} utils.APIResponse{data=dto.ServiceRequestDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /requests/{id} [put]
func (h *Handler) UpdateServiceRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("authentication required"))
		return
	}

	sid, err := parseSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	fields, upload, err := h.bindRequest(c)
	if err != nil {
		h.logger.Warnw("invalid request body for update service request", "sid", sid, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), usecases.UpdateServiceRequestCommand{
		SID:    sid,
		Fields: fields,
		File:   upload,
		Actor:  actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service request updated successfully", result.Request)
}

// DeleteServiceRequest handles DELETE /api/requests/:id
// @Summary Delete a service request
// @Description Admin only. The attachment is removed as well.
// @Tags ServiceRequests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service request ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /requests/{id} [delete]
func (h *Handler) DeleteServiceRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("authentication required"))
		return
	}

	sid, err := parseSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if _, err := h.deleteUC.Execute(c.Request.Context(), usecases.DeleteServiceRequestCommand{
		SID:   sid,
		Actor: actor,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service request deleted successfully", nil)
}

func (h *Handler) bindRequest(c *gin.Context) (usecases.RequestFields, *usecases.FileUpload, error) {
	h.limitBody(c)

	var req ServiceRequestRequest
	if err := c.ShouldBind(&req); err != nil {
		if tooLarge(err) {
			return usecases.RequestFields{}, nil, h.tooLargeError()
		}
		return usecases.RequestFields{}, nil, utils.BindingError(err)
	}

	fields, err := req.ToFields()
	if err != nil {
		return usecases.RequestFields{}, nil, err
	}

	upload, err := h.readUpload(c)
	if err != nil {
		return usecases.RequestFields{}, nil, err
	}
	return fields, upload, nil
}

// readUpload returns the rcaFile part, or nil when the request carries none.
// At most maxBytes+1 bytes are read so oversize files are detected without
// buffering them.
func (h *Handler) readUpload(c *gin.Context) (*usecases.FileUpload, error) {
	header, err := c.FormFile(constants.FormFieldRCAFile)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) || stderrors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		if tooLarge(err) {
			return nil, h.tooLargeError()
		}
		return nil, errors.NewValidationError("Invalid multipart form", err.Error())
	}

	f, err := header.Open()
	if err != nil {
		return nil, errors.NewInternalError("failed to read upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return nil, errors.NewInternalError("failed to read upload")
	}

	return &usecases.FileUpload{Name: header.Filename, Data: data}, nil
}

func (h *Handler) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
}

func (h *Handler) tooLargeError() error {
	return errors.NewTooLargeError(fmt.Sprintf("File too large. Maximum size is %dMB.", h.maxBytes>>20))
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}

func parseSID(c *gin.Context) (string, error) {
	return utils.ParseRequestSID(c)
}

func currentActor(c *gin.Context) (user.Actor, bool) {
	return middleware.ActorFromContext(c)
}
