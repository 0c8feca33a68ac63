package handlers

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

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxImageSize = 5 << 20

var errImageTooLarge = errors.New("image file too large (max 5MB)")

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// UploadProductImage stores a multipart "image" field and returns its public path.
func UploadProductImage(uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/uploads"
		defer handlePanic(c, route)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+(1<<20))
		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file is required")
			return
		}

		rel, err := saveImage(file, uploadDir)
		if err != nil {
			var userErr imageError
			if errors.As(err, &userErr) || errors.Is(err, errImageTooLarge) {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			respondError(c, route, err)
			return
		}

		respondOK(c, http.StatusCreated, gin.H{"path": rel, "url": "/public/" + rel}, "Image uploaded")
	}
}

type imageError string

func (e imageError) Error() string { return string(e) }

/*
=======================
  IMAGE SAVE
=======================
*/

func saveImage(file *multipart.FileHeader, uploadDir string) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", imageError("image file extension is required")
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", imageError(fmt.Sprintf("unsupported image type: %s", extension))
	}
	if file.Size > maxImageSize {
		return "", errImageTooLarge
	}

	filename := uuid.NewString() + extension

	dir := filepath.Join(uploadDir, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		httpLog.WithError(err).Errorf("saveImage: failed to create directory %s", dir)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)
	httpLog.WithField("path", fullPath).Debug("saveImage: writing upload")

	out, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	// path stored on the product, served under /public
	return path.Join("uploads", "products", filename), nil
}
