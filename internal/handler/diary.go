package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/daybook/backend/internal/model"
	"github.com/daybook/backend/internal/service"
)

const (
	maxImagesPerEntry = 5
	maxImageBytes     = 5 << 20
)

var (
	errTooManyImages = errors.New("too many image files")
	errImageTooLarge = errors.New("image file too large")
)

type DiaryHandler struct {
	svc *service.DiaryService
}

func NewDiaryHandler(svc *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{svc: svc}
}

// Create godoc
// @Summary Create a diary entry
// @Description JSON body, or multipart/form-data with up to 5 image files
// @Description of at most 5 MiB each under the "images" field.
// @Tags diary
// @Accept json
// @Accept mpfd
// @Produce json
// @Success 201 {object} model.DiaryEntry
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/diary [post]
func (h *DiaryHandler) Create(c *gin.Context) {
	var req model.CreateEntryRequest
	var images []service.UploadedImage

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
			return
		}
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
			return
		}
		images, err = openImages(form.File["images"])
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
			return
		}
		defer closeImages(images)
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), GetAuthUser(c).ID, req, images)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func openImages(files []*multipart.FileHeader) ([]service.UploadedImage, error) {
	if len(files) > maxImagesPerEntry {
		return nil, errTooManyImages
	}
	images := make([]service.UploadedImage, 0, len(files))
	for _, file := range files {
		if file.Size > maxImageBytes {
			closeImages(images)
			return nil, errImageTooLarge
		}
		opened, err := file.Open()
		if err != nil {
			closeImages(images)
			return nil, err
		}
		images = append(images, service.UploadedImage{
			Name:        file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Data:        opened,
		})
	}
	return images, nil
}

func closeImages(images []service.UploadedImage) {
	for _, image := range images {
		if closer, ok := image.Data.(multipart.File); ok {
			closer.Close()
		}
	}
}

// List godoc
// @Summary List the user's diary entries
// @Description Optional ?start=YYYY-MM-DD&end=YYYY-MM-DD range filter, or
// @Description ?year= / ?month= / ?day= calendar filters.
// @Tags diary
// @Produce json
// @Success 200 {array} model.EntrySummary
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/diary [get]
func (h *DiaryHandler) List(c *gin.Context) {
	userID := GetAuthUser(c).ID
	ctx := c.Request.Context()

	var entries []model.EntrySummary
	var err error
	switch {
	case c.Query("start") != "" || c.Query("end") != "":
		entries, err = h.svc.ListInRange(ctx, userID, c.Query("start"), c.Query("end"))
	case c.Query("year") != "":
		entries, err = h.svc.ListByTime(ctx, userID, "year", c.Query("year"))
	case c.Query("month") != "":
		entries, err = h.svc.ListByTime(ctx, userID, "month", c.Query("month"))
	case c.Query("day") != "":
		entries, err = h.svc.ListByTime(ctx, userID, "day", c.Query("day"))
	default:
		entries, err = h.svc.List(ctx, userID)
	}
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Get godoc
// @Summary Get one diary entry
// @Description Image URLs in the response are presigned and short-lived.
// @Tags diary
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} model.DiaryEntry
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/diary/{id} [get]
func (h *DiaryHandler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Update godoc
// @Summary Update a diary entry
// @Tags diary
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param request body model.UpdateEntryRequest true "Fields to change"
// @Success 200 {object} model.DiaryEntry
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/diary/{id} [put]
func (h *DiaryHandler) Update(c *gin.Context) {
	var req model.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "invalid request"})
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete a diary entry
// @Tags diary
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/diary/{id} [delete]
func (h *DiaryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "entry deleted"})
}

// Related godoc
// @Summary List entries similar to this one
// @Description Nearest neighbours by embedding distance, closest first.
// @Tags diary
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} model.RelatedEntriesResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /api/v1/diary/{id}/related [get]
func (h *DiaryHandler) Related(c *gin.Context) {
	entries, err := h.svc.Related(c.Request.Context(), c.Param("id"), GetAuthUser(c).ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	if entries == nil {
		entries = []model.RelatedEntry{}
	}
	c.JSON(http.StatusOK, model.RelatedEntriesResponse{Status: "ok", Entries: entries})
}
