package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidPhoto 头像格式不支持或文件过大
var ErrInvalidPhoto = errors.New("仅支持 5MB 以内的 jpg、png、gif、webp 图片")

const (
	photoMaxSize   = 5 << 20
	photoURLPrefix = "/uploads/"
)

// allowedPhotoTypes 扩展名 → 允许的内容类型（按文件头嗅探）
var allowedPhotoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// photoStore 本地磁盘头像存储，文件名为 uuid + 扩展名
type photoStore struct {
	dir string
}

func newPhotoStore(dir string) *photoStore {
	return &photoStore{dir: dir}
}

// Save 校验并写入头像，返回存储文件名
func (p *photoStore) Save(filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	wantType, ok := allowedPhotoTypes[ext]
	if !ok {
		return "", ErrInvalidPhoto
	}

	data, err := io.ReadAll(io.LimitReader(content, photoMaxSize+1))
	if err != nil {
		return "", fmt.Errorf("读取上传文件失败: %w", err)
	}
	if len(data) == 0 || len(data) > photoMaxSize {
		return "", ErrInvalidPhoto
	}
	if http.DetectContentType(data) != wantType {
		return "", ErrInvalidPhoto
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(p.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("保存头像失败: %w", err)
	}
	return name, nil
}

// Remove 删除旧头像，文件不存在时忽略
func (p *photoStore) Remove(name string) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return
	}
	_ = os.Remove(filepath.Join(p.dir, name))
}

func photoURL(name string) string {
	return photoURLPrefix + name
}
