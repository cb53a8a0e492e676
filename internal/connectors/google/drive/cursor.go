package drive

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

const cursorVersion = 1

// ErrInvalidCursor is returned for a cursor this connector did not issue.
var ErrInvalidCursor = errors.New("drive: invalid cursor format")

// Cursor is the opaque sync position handed to the watcher: a Changes API
// page token and the folder it was issued for.
type Cursor struct {
	Version        int    `json:"v"`
	StartPageToken string `json:"start_page_token"`
	FolderID       string `json:"folder_id,omitempty"`
}

func newCursor(folderID, token string) Cursor {
	return Cursor{Version: cursorVersion, StartPageToken: token, FolderID: folderID}
}

// String encodes the cursor as unpadded URL-safe base64 JSON.
func (c Cursor) String() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Resumes reports whether the change feed can continue from c for folderID.
// Otherwise the folder has to be listed in full.
func (c Cursor) Resumes(folderID string) bool {
	return c.StartPageToken != "" && c.FolderID == folderID
}

// DecodeCursor parses a cursor produced by String. The empty string is the
// zero cursor, which resumes nothing.
func DecodeCursor(s string) (Cursor, error) {
	var c Cursor
	if s == "" {
		return c, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, ErrInvalidCursor
	}
	if err := json.Unmarshal(raw, &c); err != nil || c.Version > cursorVersion {
		return Cursor{}, ErrInvalidCursor
	}
	return c, nil
}
