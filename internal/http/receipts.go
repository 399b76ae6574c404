package http

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

var allowedReceiptExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// ReceiptStore saves uploaded receipt images under a directory and hands
// back the public URL the ledger entry should store.
type ReceiptStore struct {
	dir     string
	baseURL string
}

func NewReceiptStore(dir, baseURL string) (*ReceiptStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create receipt directory: %w", err)
	}
	return &ReceiptStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *ReceiptStore) Dir() string { return s.dir }

// Save writes the uploaded file under a random name, keeping only the
// extension from the client, and returns its URL.
func (s *ReceiptStore) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > maxReceiptSize {
		return "", fmt.Errorf("receipt too large: %d bytes", file.Size)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedReceiptExts[ext] {
		return "", fmt.Errorf("unsupported receipt type %q", ext)
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("save receipt: %w", err)
	}
	return path.Join(s.baseURL, name), nil
}
