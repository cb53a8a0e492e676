package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/fieldarchive/internal/connectors/google"
	"github.com/custodia-labs/fieldarchive/internal/connectors/ratelimit"
	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.RemoteDrive = (*Drive)(nil)

const (
	// DefaultPageSize is the files.list and changes.list page size.
	DefaultPageSize = 200

	// DefaultMaxDownloadBytes bounds a single file download.
	DefaultMaxDownloadBytes = 100 << 20

	listFields   googleapi.Field = "nextPageToken,files(" + fileFields + ")"
	changeFields googleapi.Field = "nextPageToken,newStartPageToken,changes(fileId,removed,file(" + fileFields + "))"
)

// Drive is a Google Drive folder exposed as a RemoteDrive.
type Drive struct {
	svc              *drive.Service
	folderID         string
	rateLimiter      *ratelimit.Limiter
	maxDownloadBytes int64
}

// New creates a drive over svc. An empty folderID watches everything
// the credentials can see.
func New(svc *drive.Service, folderID string) *Drive {
	return &Drive{
		svc:              svc,
		folderID:         folderID,
		rateLimiter:      ratelimit.New(ratelimit.GoogleDrive),
		maxDownloadBytes: DefaultMaxDownloadBytes,
	}
}

// Resolve identifies the account and, when set, checks the folder is reachable.
func (d *Drive) Resolve(ctx context.Context) (domain.DriveIdentity, error) {
	if err := d.wait(ctx); err != nil {
		return domain.DriveIdentity{}, err
	}
	about, err := d.svc.About.Get().Fields("user(emailAddress,displayName)").Context(ctx).Do()
	if err != nil {
		return domain.DriveIdentity{}, d.remoteError(err, "get about")
	}

	identity := domain.DriveIdentity{Name: "My Drive"}
	if about.User != nil {
		identity.DriveID = about.User.EmailAddress
	}

	if d.folderID == "" {
		return identity, nil
	}

	if err := d.wait(ctx); err != nil {
		return domain.DriveIdentity{}, err
	}
	folder, err := d.svc.Files.Get(d.folderID).
		Fields("id,name,mimeType,driveId").
		SupportsAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return domain.DriveIdentity{}, d.remoteError(err, "get folder")
	}
	if folder.MimeType != MimeTypeFolder {
		return domain.DriveIdentity{}, google.RemoteError(
			fmt.Errorf("%w: %s is not a folder", google.ErrNotFound, d.folderID), "get folder")
	}

	identity.Name = folder.Name
	if folder.DriveId != "" {
		identity.DriveID = folder.DriveId
	}
	return identity, nil
}

// ListChanges returns a full listing for an empty cursor and the change
// feed otherwise.
func (d *Drive) ListChanges(ctx context.Context, cursor string) (*domain.ChangePage, error) {
	c, err := DecodeCursor(cursor)
	if err != nil {
		return nil, google.RemoteError(err, "decode cursor")
	}
	if !c.Resumes(d.folderID) {
		return d.fullListing(ctx)
	}
	return d.changes(ctx, c.StartPageToken)
}

func (d *Drive) fullListing(ctx context.Context) (*domain.ChangePage, error) {
	// Take the token first so changes made during the walk are seen next poll.
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	start, err := d.svc.Changes.GetStartPageToken().SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return nil, d.remoteError(err, "get start page token")
	}

	q := "trashed = false"
	if d.folderID != "" {
		q = fmt.Sprintf("'%s' in parents and trashed = false", d.folderID)
	}

	page := &domain.ChangePage{}
	pageToken := ""
	for {
		if err := d.wait(ctx); err != nil {
			return nil, err
		}
		call := d.svc.Files.List().
			Q(q).
			Fields(listFields).
			PageSize(DefaultPageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, d.remoteError(err, "list files")
		}
		for _, f := range resp.Files {
			page.Items = append(page.Items, toRemoteItem(f))
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	page.NextCursor = d.encodeCursor(start.StartPageToken)
	return page, nil
}

func (d *Drive) changes(ctx context.Context, token string) (*domain.ChangePage, error) {
	page := &domain.ChangePage{}
	for {
		if err := d.wait(ctx); err != nil {
			return nil, err
		}
		resp, err := d.svc.Changes.List(token).
			Fields(changeFields).
			PageSize(DefaultPageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx).Do()
		if err != nil {
			return nil, d.remoteError(err, "list changes")
		}

		for _, ch := range resp.Changes {
			if ch.Removed || ch.File == nil {
				page.Items = append(page.Items, domain.RemoteItem{ID: ch.FileId, Deleted: true})
				continue
			}
			if !inFolder(ch.File, d.folderID) {
				continue
			}
			page.Items = append(page.Items, toRemoteItem(ch.File))
		}

		switch {
		case resp.NextPageToken != "":
			token = resp.NextPageToken
		case resp.NewStartPageToken != "":
			page.NextCursor = d.encodeCursor(resp.NewStartPageToken)
			return page, nil
		default:
			return nil, google.RemoteError(errors.New("changes response has no page token"), "list changes")
		}
	}
}

// Download fetches the binary content of a file.
func (d *Drive) Download(ctx context.Context, item domain.RemoteItem) ([]byte, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := d.svc.Files.Get(item.ID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, d.remoteError(err, "download "+item.Name)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxDownloadBytes+1))
	if err != nil {
		return nil, google.RemoteError(err, "read "+item.Name)
	}
	if int64(len(data)) > d.maxDownloadBytes {
		return nil, google.RemoteError(fmt.Errorf("%s exceeds %d bytes", item.Name, d.maxDownloadBytes), "download")
	}
	return data, nil
}

func (d *Drive) encodeCursor(token string) string {
	return newCursor(d.folderID, token).String()
}

func (d *Drive) wait(ctx context.Context) error {
	if err := d.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// remoteError records a backoff for throttled calls before wrapping.
func (d *Drive) remoteError(err error, op string) error {
	if google.IsRateLimited(err) {
		var retry http.Header
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			retry = gerr.Header
		}
		d.rateLimiter.Backoff(ratelimit.RetryAfter(retry))
	}
	return google.RemoteError(err, op)
}
