package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/interfaces/httpserver/requests"
	"github.com/janhq/testimonial-server/internal/interfaces/httpserver/responses"
	"github.com/janhq/testimonial-server/internal/utils/platformerrors"
)

// TestimonialHandler exposes testimonial endpoints.
type TestimonialHandler struct {
	cfg     *config.Config
	service domain.Service
	log     zerolog.Logger
}

func NewTestimonialHandler(cfg *config.Config, service domain.Service, log zerolog.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "testimonial-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create testimonial
// @Description  Uploads the video and thumbnail, then stores the testimonial.
// @Tags         testimonials
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true  "Submitter name"
// @Param        location     formData  string  true  "Where the submitter is from"
// @Param        productName  formData  string  true  "Reviewed product"
// @Param        video        formData  file    true  "Testimonial video"
// @Param        thumbnail    formData  file    true  "Video thumbnail"
// @Success      201  {object}  responses.Envelope{data=domain.Testimonial}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/testimonials [post]
func (h *TestimonialHandler) Create(c *gin.Context) {
	var form requests.TestimonialForm
	staged, ok := h.bindUpload(c, &form)
	if !ok {
		return
	}
	defer h.cleanup(staged)

	record, err := h.service.Create(c.Request.Context(), domain.CreateInput{
		Name:          form.Name,
		Location:      form.Location,
		ProductName:   form.ProductName,
		VideoPath:     staged.Path(requests.FieldVideo),
		ThumbnailPath: staged.Path(requests.FieldThumbnail),
	})
	if err != nil {
		responses.HandleError(c, h.log, err, "Something went wrong while creating the testimonial.")
		return
	}

	responses.Respond(c, http.StatusCreated, record, "Testimonial created successfully.")
}

// List godoc
// @Summary      List testimonials
// @Description  Returns every testimonial, newest first.
// @Tags         testimonials
// @Produce      json
// @Success      200  {object}  responses.Envelope{data=[]domain.Testimonial}
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v1/testimonials [get]
func (h *TestimonialHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch testimonials.")
		return
	}
	responses.Respond(c, http.StatusOK, items, "Testimonials fetched successfully.")
}

// Get godoc
// @Summary      Get testimonial
// @Tags         testimonials
// @Produce      json
// @Param        id   path      string  true  "Testimonial ID"
// @Success      200  {object}  responses.Envelope{data=domain.Testimonial}
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/testimonials/{id} [get]
func (h *TestimonialHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to fetch testimonial.")
		return
	}
	responses.Respond(c, http.StatusOK, record, "Testimonial fetched successfully.")
}

// Update godoc
// @Summary      Update testimonial
// @Description  Replaces any supplied text field or asset. Omitted or blank fields keep their value.
// @Tags         testimonials
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "Testimonial ID"
// @Param        name         formData  string  false  "Submitter name"
// @Param        location     formData  string  false  "Where the submitter is from"
// @Param        productName  formData  string  false  "Reviewed product"
// @Param        video        formData  file    false  "Replacement video"
// @Param        thumbnail    formData  file    false  "Replacement thumbnail"
// @Success      200  {object}  responses.Envelope{data=domain.Testimonial}
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/testimonials/{id} [patch]
func (h *TestimonialHandler) Update(c *gin.Context) {
	var form requests.TestimonialForm
	staged, ok := h.bindUpload(c, &form)
	if !ok {
		return
	}
	defer h.cleanup(staged)

	record, err := h.service.Update(c.Request.Context(), c.Param("id"), domain.UpdateInput{
		Name:          form.Name,
		Location:      form.Location,
		ProductName:   form.ProductName,
		VideoPath:     staged.Path(requests.FieldVideo),
		ThumbnailPath: staged.Path(requests.FieldThumbnail),
	})
	if err != nil {
		responses.HandleError(c, h.log, err, "Something went wrong while updating the testimonial.")
		return
	}
	responses.Respond(c, http.StatusOK, record, "Testimonial updated successfully.")
}

// Delete godoc
// @Summary      Delete testimonial
// @Description  Removes both assets and then the testimonial record.
// @Tags         testimonials
// @Produce      json
// @Param        id   path      string  true  "Testimonial ID"
// @Success      200  {object}  responses.Envelope
// @Failure      404  {object}  responses.ErrorResponse
// @Security     BearerAuth
// @Router       /v1/testimonials/{id} [delete]
func (h *TestimonialHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		responses.HandleError(c, h.log, err, "Something went wrong while deleting the testimonial.")
		return
	}
	responses.Respond(c, http.StatusOK, gin.H{}, "Testimonial deleted successfully.")
}

// bindUpload stages the multipart files and binds the text fields. It writes the error response
// itself and reports false when the request cannot proceed.
func (h *TestimonialHandler) bindUpload(c *gin.Context, form *requests.TestimonialForm) (*requests.StagedFiles, bool) {
	staged, err := requests.StageFiles(c, h.cfg.UploadTempDir, requests.FieldVideo, requests.FieldThumbnail)
	if err != nil {
		if errors.Is(err, requests.ErrBodyTooLarge) {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Uploaded files exceed the maximum allowed size.", "2c9f5e3a-3d7b-4a4c-8e8f-3b5d7f9c2e22")
			return nil, false
		}
		if errors.Is(err, requests.ErrStaging) {
			h.log.Error().Err(err).Str("upload_temp_dir", h.cfg.UploadTempDir).Msg("failed to stage upload")
			responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "Failed to process uploaded files.", "5f3c8b6d-6a0e-4d7f-9b3c-6e8a0c3f5b25")
			return nil, false
		}
		h.log.Warn().Err(err).Msg("failed to parse upload")
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid multipart form.", "3d1a6f4b-4e8c-4b5d-9f1a-4c6e8a1d3f23")
		return nil, false
	}
	if err := c.ShouldBind(form); err != nil {
		_ = staged.Cleanup()
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid form fields.", "4e2b7a5c-5f9d-4c6e-8a2b-5d7f9b2e4a24")
		return nil, false
	}
	return staged, true
}

func (h *TestimonialHandler) cleanup(staged *requests.StagedFiles) {
	if err := staged.Cleanup(); err != nil {
		h.log.Warn().Err(err).Msg("failed to remove staged upload")
	}
}
