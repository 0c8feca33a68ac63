package handlers

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// isUploadPath reports whether an image path points into the upload area.
func isUploadPath(relPath string) bool {
	cleanRel := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(strings.TrimSpace(relPath), "/")), "/")
	return strings.HasPrefix(cleanRel, "uploads/")
}

// safeDeleteUpload removes an "uploads/..." path from uploadDir, refusing
// anything that escapes it.
func safeDeleteUpload(uploadDir, relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(uploadDir)
	cleanTarget := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(strings.TrimPrefix(cleanRel, "uploads/"))))
	if cleanTarget == cleanBase || !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload dir: %s", relPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}

// dropReplacedUpload removes an uploaded image that a product no longer references.
func dropReplacedUpload(uploadDir, oldPath, newPath string) {
	if oldPath == newPath || !isUploadPath(oldPath) {
		return
	}
	if err := safeDeleteUpload(uploadDir, oldPath); err != nil {
		httpLog.WithError(err).Warnf("failed to delete upload %s", oldPath)
	}
}
