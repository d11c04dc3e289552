package documents_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockconnect/backend/internal/apps/documents"
	"github.com/blockconnect/backend/internal/catalog"
	"github.com/blockconnect/backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "docs.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE documents (
		id text PRIMARY KEY, block_space_id text NOT NULL, uploader_id text NOT NULL,
		name text NOT NULL, file_type text NOT NULL, file_size integer NOT NULL,
		category text, storage_path text NOT NULL, status text,
		description text, created_at datetime, updated_at datetime, deleted_at datetime)`).Error)
	return db
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"document_categories": [
			{"value": "rules", "label": "House Rules"},
			{"value": "minutes", "label": "Meeting Minutes"}
		]
	}`), 0o644))

	cat, err := catalog.LoadFromFile(path)
	require.NoError(t, err)
	return cat
}

func sampleDoc(blockSpaceID, uploaderID uuid.UUID) *documents.Document {
	return &documents.Document{
		BlockSpaceID: blockSpaceID,
		UploaderID:   uploaderID,
		Name:         "house-rules.pdf",
		FileType:     "pdf",
		FileSize:     2048,
		Category:     "rules",
		StoragePath:  "/tmp/uploads/house-rules.pdf",
	}
}

func TestCreateMemberUploadWaitsForApproval(t *testing.T) {
	db := openTestDB(t)
	svc := documents.NewDocumentService(db, realtime.NewBroker(nil, realtime.NewHub()), testCatalog(t))

	doc, err := svc.Create(sampleDoc(uuid.New(), uuid.New()), false)
	require.NoError(t, err)
	require.Equal(t, documents.StatusPending, doc.Status)
}

func TestCreateAdminUploadGoesLive(t *testing.T) {
	db := openTestDB(t)
	svc := documents.NewDocumentService(db, realtime.NewBroker(nil, realtime.NewHub()), testCatalog(t))

	doc, err := svc.Create(sampleDoc(uuid.New(), uuid.New()), true)
	require.NoError(t, err)
	require.Equal(t, documents.StatusApproved, doc.Status)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	db := openTestDB(t)
	svc := documents.NewDocumentService(db, realtime.NewBroker(nil, realtime.NewHub()), testCatalog(t))

	doc := sampleDoc(uuid.New(), uuid.New())
	doc.Category = "memes"
	_, err := svc.Create(doc, false)
	require.ErrorIs(t, err, documents.ErrInvalidCategory)
}

func TestApproveBroadcastsUpdate(t *testing.T) {
	db := openTestDB(t)
	hub := realtime.NewHub()
	svc := documents.NewDocumentService(db, realtime.NewBroker(nil, hub), testCatalog(t))

	spaceID := uuid.New()
	client := realtime.NewClient(uuid.New(), spaceID)
	hub.Register(client)

	// A pending upload emits nothing, so the first frame the client
	// sees is the approval.
	doc, err := svc.Create(sampleDoc(spaceID, uuid.New()), false)
	require.NoError(t, err)
	require.Empty(t, client.Send)

	approved, err := svc.Approve(spaceID, doc.ID)
	require.NoError(t, err)
	require.Equal(t, documents.StatusApproved, approved.Status)

	require.Len(t, client.Send, 1)
	var ev realtime.Event
	require.NoError(t, json.Unmarshal(<-client.Send, &ev))
	require.Equal(t, "documents", ev.Table)
	require.Equal(t, realtime.EventUpdate, ev.Type)
	require.Equal(t, spaceID, ev.BlockSpaceID)
}

func TestApproveIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	hub := realtime.NewHub()
	svc := documents.NewDocumentService(db, realtime.NewBroker(nil, hub), testCatalog(t))

	spaceID := uuid.New()
	client := realtime.NewClient(uuid.New(), spaceID)
	hub.Register(client)

	doc, err := svc.Create(sampleDoc(spaceID, uuid.New()), false)
	require.NoError(t, err)

	_, err = svc.Approve(spaceID, doc.ID)
	require.NoError(t, err)
	_, err = svc.Approve(spaceID, doc.ID)
	require.NoError(t, err)

	// The second approve is a no-op and must not re-broadcast.
	require.Len(t, client.Send, 1)
}
