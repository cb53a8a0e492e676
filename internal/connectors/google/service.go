package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrNoCredentials indicates no service account key was configured.
var ErrNoCredentials = errors.New("google: credentials file not configured")

// NewDriveService creates a read-only Google Drive API service from a
// service account key file. Extra options are appended, which lets tests
// point the service at a local endpoint.
func NewDriveService(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*drive.Service, error) {
	if credentialsFile == "" && len(opts) == 0 {
		return nil, ErrNoCredentials
	}

	var all []option.ClientOption
	if credentialsFile != "" {
		all = append(all,
			option.WithCredentialsFile(credentialsFile),
			option.WithScopes(drive.DriveReadonlyScope),
		)
	}
	all = append(all, opts...)

	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return svc, nil
}
