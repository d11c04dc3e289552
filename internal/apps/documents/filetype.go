package documents

import (
	"path/filepath"
	"strings"
)

// FileType classifies an upload into the coarse buckets the client
// renders icons for.
func FileType(fileName, contentType string) string {
	switch {
	case contentType == "application/pdf":
		return "pdf"
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "application/msword"),
		strings.HasPrefix(contentType, "application/vnd.openxmlformats-officedocument"),
		strings.HasPrefix(contentType, "text/"):
		return "doc"
	}

	// Some clients send application/octet-stream; fall back to the extension.
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return "pdf"
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return "image"
	case ".doc", ".docx", ".txt", ".md", ".odt":
		return "doc"
	}
	return "other"
}
