package controllers

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shreyat81/mini-drive-backend/internal/config"
	"github.com/shreyat81/mini-drive-backend/internal/middleware"
	"github.com/shreyat81/mini-drive-backend/internal/models"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/services"
)

type FileController struct {
	fileService *services.FileService
	cfg         *config.Config
}

func NewFileController(fileService *services.FileService, cfg *config.Config) *FileController {
	return &FileController{
		fileService: fileService,
		cfg:         cfg,
	}
}

// UploadFile handles file upload
// POST /files/upload (and POST /files)
func (fc *FileController) UploadFile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	// Size and MIME filtering happen here, before the core is invoked.
	if fileHeader.Size > fc.cfg.Storage.MaxUploadBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "File too large",
			"message": fmt.Sprintf("limit is %d MB", fc.cfg.Storage.MaxFileSizeMB),
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = detectContentType(filepath.Ext(fileHeader.Filename))
	}
	if !fc.cfg.Storage.AllowsMime(contentType) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"error":   "Unsupported file type",
			"message": fmt.Sprintf("%s uploads are not allowed", contentType),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	stored, err := fc.fileService.Upload(c.Request.Context(), &services.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Reader:      file,
		OwnerID:     caller.ID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    stored,
	})
}

// GetMyFiles lists owned files plus files shared with the caller,
// annotated with the effective permission.
// GET /files/my-files
func (fc *FileController) GetMyFiles(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var owned []models.File
	var shared []repositories.SharedFile
	err := withRetry(func() error {
		var err error
		owned, shared, err = fc.fileService.ListMine(c.Request.Context(), caller.ID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"owned": owned, "shared": shared})
}

// GetAllFiles lists every file (admin only, gated by middleware).
// GET /files/all
func (fc *FileController) GetAllFiles(c *gin.Context) {
	var files []models.File
	err := withRetry(func() error {
		var err error
		files, err = fc.fileService.ListAll(c.Request.Context())
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GetFile returns a single record's metadata after a read policy check.
// GET /files/:id
func (fc *FileController) GetFile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	file, err := fc.fileService.Get(c.Request.Context(), caller, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file})
}

// DownloadFile streams a file's content to an authenticated caller.
// GET /files/download/:id
func (fc *FileController) DownloadFile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	file, result, err := fc.fileService.Download(c.Request.Context(), caller, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer result.Reader.Close()

	streamDownload(c, file, result.ContentType, result.Size, result.Reader)
}

// UpdateFile patches metadata; a present owner_id turns the call into an
// ownership transfer (admin only).
// PATCH /files/:id
func (fc *FileController) UpdateFile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	var input struct {
		OriginalName *string `json:"original_name"`
		ContentType  *string `json:"content_type"`
		OwnerID      *string `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	patch := repositories.MetadataPatch{
		OriginalName: input.OriginalName,
		ContentType:  input.ContentType,
	}

	var file *models.File
	if !patch.IsEmpty() {
		file, err = fc.fileService.UpdateMetadata(c.Request.Context(), caller, fileID, patch)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	if input.OwnerID != nil {
		newOwnerID, parseErr := uuid.Parse(*input.OwnerID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner id"})
			return
		}
		file, err = fc.fileService.TransferOwnership(c.Request.Context(), caller, fileID, newOwnerID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	if file == nil {
		file, err = fc.fileService.Get(c.Request.Context(), caller, fileID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "File metadata updated", "file": file})
}

// DeleteFile removes the record, its access requests and its blob. A
// failed blob removal degrades the response instead of failing it.
// DELETE /files/:id
func (fc *FileController) DeleteFile(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	orphaned, err := fc.fileService.Delete(c.Request.Context(), caller, fileID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"message": "File deleted successfully"}
	if orphaned {
		resp["blob_cleanup"] = "deferred"
	}
	c.JSON(http.StatusOK, resp)
}

func streamDownload(c *gin.Context, file *models.File, contentType string, size int64, reader io.Reader) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	c.Header("Content-Type", contentType)
	if size > 0 {
		c.Header("Content-Length", fmt.Sprintf("%d", size))
	}
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

// detectContentType detects MIME type from file extension
func detectContentType(ext string) string {
	mimeTypes := map[string]string{
		".pdf":  "application/pdf",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".txt":  "text/plain",
		".csv":  "text/csv",
		".json": "application/json",
		".zip":  "application/zip",
	}
	if mimeType, ok := mimeTypes[ext]; ok {
		return mimeType
	}
	if detectedType := mime.TypeByExtension(ext); detectedType != "" {
		return detectedType
	}
	return "application/octet-stream"
}
