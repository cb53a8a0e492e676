package msgraph

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.RemoteDrive = (*Drive)(nil)

// Drive is a SharePoint document library exposed as a RemoteDrive.
type Drive struct {
	cfg    Config
	client *client

	mu       sync.Mutex
	identity *domain.DriveIdentity
}

// New creates a SharePoint drive. It does not contact Graph until Resolve.
func New(cfg Config) (*Drive, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return &Drive{
		cfg:    cfg,
		client: newClient(cfg),
	}, nil
}

type site struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type driveEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type driveList struct {
	Value []driveEntry `json:"value"`
}

// Resolve looks up the site and its document library.
func (d *Drive) Resolve(ctx context.Context) (domain.DriveIdentity, error) {
	u, err := url.Parse(d.cfg.SiteURL)
	if err != nil {
		return domain.DriveIdentity{}, wrapError(err, "parse site URL")
	}

	sitePath := "/sites/" + url.PathEscape(u.Hostname())
	if p := strings.Trim(u.Path, "/"); p != "" {
		sitePath += ":/" + escapePath(p)
	}

	var s site
	if err := d.client.getJSON(ctx, sitePath, &s); err != nil {
		return domain.DriveIdentity{}, wrapError(err, "get site")
	}

	var drives driveList
	if err := d.client.getJSON(ctx, "/sites/"+url.PathEscape(s.ID)+"/drives", &drives); err != nil {
		return domain.DriveIdentity{}, wrapError(err, "list drives")
	}

	entry, ok := matchLibrary(drives.Value, d.cfg.Library)
	if !ok {
		return domain.DriveIdentity{}, wrapError(
			fmt.Errorf("%w: %q", ErrDriveNotFound, d.cfg.Library), "match library")
	}

	identity := domain.DriveIdentity{SiteID: s.ID, DriveID: entry.ID, Name: entry.Name}

	d.mu.Lock()
	d.identity = &identity
	d.mu.Unlock()

	return identity, nil
}

// matchLibrary prefers the configured name and falls back to "Documents".
func matchLibrary(drives []driveEntry, library string) (driveEntry, bool) {
	for _, d := range drives {
		if d.Name == library {
			return d, true
		}
	}
	for _, d := range drives {
		if d.Name == FallbackLibrary {
			return d, true
		}
	}
	return driveEntry{}, false
}

type deltaItem struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Size                 int64     `json:"size"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
	File                 *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	Folder *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder"`
	Deleted *struct {
		State string `json:"state"`
	} `json:"deleted"`
	ParentReference struct {
		DriveID string `json:"driveId"`
		Path    string `json:"path"`
	} `json:"parentReference"`
	DownloadURL string `json:"@microsoft.graph.downloadUrl"`
}

type deltaPage struct {
	Value     []deltaItem `json:"value"`
	NextLink  string      `json:"@odata.nextLink"`
	DeltaLink string      `json:"@odata.deltaLink"`
}

// ListChanges reads the delta feed from cursor to its end.
// The returned cursor is the final @odata.deltaLink.
func (d *Drive) ListChanges(ctx context.Context, cursor string) (*domain.ChangePage, error) {
	identity, err := d.resolved(ctx)
	if err != nil {
		return nil, err
	}

	next := cursor
	if next == "" {
		next = d.deltaPath(identity.DriveID)
	} else if !strings.HasPrefix(next, d.cfg.BaseURL+"/") {
		return nil, wrapError(ErrInvalidCursor, "list changes")
	}

	page := &domain.ChangePage{}
	for next != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var dp deltaPage
		if err := d.client.getJSON(ctx, next, &dp); err != nil {
			return nil, wrapError(err, "list changes")
		}

		for _, item := range dp.Value {
			page.Items = append(page.Items, d.toRemoteItem(item))
		}

		switch {
		case dp.NextLink != "":
			next = dp.NextLink
		case dp.DeltaLink != "":
			page.NextCursor = dp.DeltaLink
			next = ""
		default:
			return nil, wrapError(errors.New("delta response has no next or delta link"), "list changes")
		}
	}

	return page, nil
}

// Download fetches file content, preferring the pre-authenticated URL.
func (d *Drive) Download(ctx context.Context, item domain.RemoteItem) ([]byte, error) {
	if item.DownloadURL != "" {
		data, err := d.client.getBinary(ctx, item.DownloadURL, false, d.cfg.MaxDownloadBytes)
		if err != nil {
			return nil, wrapError(err, "download "+item.Name)
		}
		return data, nil
	}

	identity, err := d.resolved(ctx)
	if err != nil {
		return nil, err
	}

	target := "/drives/" + url.PathEscape(identity.DriveID) + "/items/" + url.PathEscape(item.ID) + "/content"
	data, err := d.client.getBinary(ctx, target, true, d.cfg.MaxDownloadBytes)
	if err != nil {
		return nil, wrapError(err, "download "+item.Name)
	}
	return data, nil
}

func (d *Drive) resolved(ctx context.Context) (domain.DriveIdentity, error) {
	d.mu.Lock()
	identity := d.identity
	d.mu.Unlock()

	if identity != nil {
		return *identity, nil
	}
	return d.Resolve(ctx)
}

func (d *Drive) deltaPath(driveID string) string {
	base := "/drives/" + url.PathEscape(driveID) + "/root"
	if d.cfg.WatchFolder == "" {
		return base + "/delta"
	}
	return base + ":/" + escapePath(d.cfg.WatchFolder) + ":/delta"
}

func (d *Drive) toRemoteItem(item deltaItem) domain.RemoteItem {
	return domain.RemoteItem{
		ID:          item.ID,
		Name:        item.Name,
		Size:        item.Size,
		ModifiedAt:  item.LastModifiedDateTime,
		ParentPath:  relativeFolder(item.ParentReference.Path, d.cfg.WatchFolder),
		IsFile:      item.File != nil && item.Folder == nil,
		Deleted:     item.Deleted != nil,
		DownloadURL: item.DownloadURL,
	}
}
