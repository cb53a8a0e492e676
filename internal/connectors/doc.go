// Package connectors holds the remote drives the watcher reads from.
// Each subpackage implements driven.RemoteDrive for one provider:
//
//   - msgraph: a SharePoint document library via the Microsoft Graph delta API
//   - google/drive: a Google Drive folder via the Drive changes API
//
// Shared pacing lives in ratelimit. Every connector maps its failures onto
// domain.ErrRemoteUnavailable so the watcher can treat providers uniformly.
package connectors
