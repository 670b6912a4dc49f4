package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"homefolio-api/initializers"
	"homefolio-api/repository"
	"homefolio-api/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
)

// AttachmentsHandler stores user-taken photos against saved properties,
// e.g. pictures from a viewing. Binaries go to MinIO; downloads are served
// as short-lived presigned URLs.
type AttachmentsHandler struct {
	attachmentsRepo *repository.AttachmentsRepository
	savedRepo       *repository.SavedPropertiesRepository
}

func NewAttachmentsHandler(a *repository.AttachmentsRepository, s *repository.SavedPropertiesRepository) *AttachmentsHandler {
	return &AttachmentsHandler{attachmentsRepo: a, savedRepo: s}
}

func (h *AttachmentsHandler) UploadPhoto(c *gin.Context) {
	userID := c.GetInt("userId")

	propertyID := c.PostForm("property_id")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "property_id is required"))
		return
	}
	prop, err := h.savedRepo.GetByID(userID, propertyID)
	if err != nil || prop == nil || prop.IsDeleted {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeInvalidRequest, "invalid property"))
		return
	}

	// Limit request body size before reading multipart data
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, initializers.Conf.MaxSize)

	file, err := c.FormFile("file")
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, types.NewErrorResponse(types.ErrorCodeValidation, "file size exceeds the limit"))
			return
		}
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "file is required"))
		return
	}

	// Detect real MIME type from file content, not from client header
	sniff, openErr := file.Open()
	if openErr != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "cannot open uploaded file"))
		return
	}
	mt, detectErr := mimetype.DetectReader(sniff)
	_ = sniff.Close()
	if detectErr != nil || mt == nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "failed to detect file type"))
		return
	}
	detectedCT := strings.Split(mt.String(), ";")[0]

	if err := initializers.CheckFileAllowed(file.Size, detectedCT); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}

	attachmentID, err := h.uploadToMinIO(file, userID, propertyID, detectedCT)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	_ = h.savedRepo.TouchModified(userID, propertyID)

	c.JSON(http.StatusCreated, types.NewSuccessResponse(map[string]interface{}{
		"attachment_id": attachmentID,
		"filename":      file.Filename,
		"size":          file.Size,
	}))
}

func (h *AttachmentsHandler) uploadToMinIO(file *multipart.FileHeader, userID int, propertyID, contentType string) (string, error) {
	attachmentID, err := h.attachmentsRepo.Create(userID, propertyID, file.Filename, contentType, file.Size)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	_, err = initializers.MinioClient.PutObject(
		context.Background(),
		initializers.Conf.Bucket,
		attachmentID,
		src,
		file.Size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return attachmentID, nil
}

func (h *AttachmentsHandler) GetFile(c *gin.Context) {
	userID := c.GetInt("userId")
	attID := c.Param("id")
	if attID == "" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "attachment id is required"))
		return
	}

	att, err := h.attachmentsRepo.GetByID(attID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if att == nil || att.UserID != userID {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "attachment not found"))
		return
	}

	url, err := initializers.GenerateAttachmentURL(att.ID, att.FileName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "failed to create presigned url"))
		return
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"url": url}))
}
