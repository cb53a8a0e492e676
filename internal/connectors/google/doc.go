// Package google provides shared infrastructure for Google API connectors.
//
// This package contains common utilities used by the drive connector:
//   - Service factory authenticating with a service account key
//   - Error handling for common Google API errors (401, 403, 404, 410, 429)
//
// # Usage
//
//	svc, err := google.NewDriveService(ctx, credentialsFile)
//	d := drive.New(svc, folderID)
//
// # OAuth2 Scopes
//
// The drive connector requests https://www.googleapis.com/auth/drive.readonly.
// The service account must be granted access to the watched folder.
package google
