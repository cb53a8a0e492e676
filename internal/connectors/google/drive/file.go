package drive

import (
	"slices"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

// Google Drive MIME types.
const (
	MimeTypeFolder = "application/vnd.google-apps.folder"

	// mimeTypeWorkspacePrefix marks native Docs, Sheets and Slides files.
	mimeTypeWorkspacePrefix = "application/vnd.google-apps."
)

// fileFields is the partial response requested for every file.
const fileFields = "id,name,mimeType,size,modifiedTime,parents,trashed"

// isDownloadable reports whether a file has binary content.
func isDownloadable(mimeType string) bool {
	return !strings.HasPrefix(mimeType, mimeTypeWorkspacePrefix)
}

// inFolder reports whether the file is a direct child of folderID.
// An empty folderID matches everything.
func inFolder(file *drive.File, folderID string) bool {
	if folderID == "" {
		return true
	}
	return slices.Contains(file.Parents, folderID)
}

// toRemoteItem converts a Drive file to a RemoteItem.
func toRemoteItem(file *drive.File) domain.RemoteItem {
	item := domain.RemoteItem{
		ID:      file.Id,
		Name:    file.Name,
		Size:    file.Size,
		IsFile:  isDownloadable(file.MimeType),
		Deleted: file.Trashed,
	}
	if t, err := time.Parse(time.RFC3339, file.ModifiedTime); err == nil {
		item.ModifiedAt = t
	}
	return item
}
