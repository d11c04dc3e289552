package documents_test

import (
	"testing"

	"github.com/blockconnect/backend/internal/apps/documents"
	"github.com/stretchr/testify/require"
)

func TestFileTypeFromContentType(t *testing.T) {
	require.Equal(t, "pdf", documents.FileType("rules.pdf", "application/pdf"))
	require.Equal(t, "image", documents.FileType("photo.jpg", "image/jpeg"))
	require.Equal(t, "doc", documents.FileType("minutes.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	require.Equal(t, "doc", documents.FileType("notes.txt", "text/plain"))
}

func TestFileTypeFallsBackToExtension(t *testing.T) {
	require.Equal(t, "pdf", documents.FileType("contract.PDF", "application/octet-stream"))
	require.Equal(t, "image", documents.FileType("floorplan.png", "application/octet-stream"))
	require.Equal(t, "doc", documents.FileType("agenda.md", "application/octet-stream"))
	require.Equal(t, "other", documents.FileType("backup.zip", "application/octet-stream"))
	require.Equal(t, "other", documents.FileType("noext", ""))
}
