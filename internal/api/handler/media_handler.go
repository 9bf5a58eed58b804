package handler

import (
	"Finvisor/internal/api/dto"
	"Finvisor/internal/pkg/consts"
	"Finvisor/internal/pkg/minio"
	"Finvisor/internal/pkg/response"
	"Finvisor/internal/pkg/util"
	"Finvisor/internal/service"
	log "log/slog"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// UploadImage 上传帖子图片，只接受图片类型，按内容嗅探而非扩展名判断
func (s *MediaHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := "images/" + uuid.NewString() + ext
	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c, "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	response.Success(c, dto.MediaUploadDTO{
		ObjectName: fileKey,
		URL:        minio.GetPublicURL(fileKey),
	})
}
