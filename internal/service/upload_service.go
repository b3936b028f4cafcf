package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"

	"github.com/google/uuid"
)

var allowedUploadScenes = map[string]struct{}{
	constants.UploadSceneProduct: {},
	"common":                     {},
}

// UploadService 文件上传服务
type UploadService struct {
	cfg *config.UploadConfig
}

// NewUploadService 创建文件上传服务实例
func NewUploadService(cfg *config.UploadConfig) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveFile 保存上传的文件，返回以 URL 前缀开头的相对路径
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if file == nil {
		return "", newValidationError("file", "is required")
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return "", fmt.Errorf("%w: max %d MB", ErrUploadTooLarge, s.cfg.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return "", fmt.Errorf("%w: extension %s", ErrUploadTypeInvalid, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(buffer[:n])
	if len(s.cfg.AllowedTypes) > 0 && !isAllowedContentType(contentType, s.cfg.AllowedTypes) {
		return "", fmt.Errorf("%w: content type %s", ErrUploadTypeInvalid, contentType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	normalizedScene := normalizeUploadScene(scene)
	now := time.Now()
	relDir := path.Join(normalizedScene, now.Format("2006"), now.Format("01"))
	filename := uuid.New().String() + ext

	saveDir := filepath.Join(s.uploadDir(), filepath.FromSlash(relDir))
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(saveDir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return path.Join(s.urlPrefix(), relDir, filename), nil
}

// RemoveFile 删除 SaveFile 返回的文件，文件不存在视为成功
func (s *UploadService) RemoveFile(publicPath string) error {
	rel := strings.TrimPrefix(strings.TrimSpace(publicPath), s.urlPrefix())
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" || rel == "." {
		return nil
	}
	err := os.Remove(filepath.Join(s.uploadDir(), filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *UploadService) uploadDir() string {
	if dir := strings.TrimSpace(s.cfg.Dir); dir != "" {
		return dir
	}
	return "uploads"
}

func (s *UploadService) urlPrefix() string {
	prefix := strings.TrimRight(strings.TrimSpace(s.cfg.URLPrefix), "/")
	if prefix == "" {
		return "/uploads"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func normalizeUploadScene(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := allowedUploadScenes[value]; ok {
		return value
	}
	return "common"
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func isAllowedContentType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if strings.EqualFold(contentType, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}
