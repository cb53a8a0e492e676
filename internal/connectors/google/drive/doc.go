// Package drive provides a RemoteDrive backed by a Google Drive folder.
//
// A full listing walks the folder with files.list and records a start page
// token taken before the walk. Later polls read changes.list from that token
// and keep only direct children of the folder. Google Workspace documents
// have no binary content and are reported as non-file items.
package drive
