package msgraph

import (
	"net/url"
	"strings"
)

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// relativeFolder converts a Graph parentReference.path such as
// "/drives/b!x/root:/FSA - State Committee/Receipts" into the folder
// relative to the watch folder ("Receipts").
func relativeFolder(parentPath, watchFolder string) string {
	_, rest, found := strings.Cut(parentPath, ":")
	if !found {
		return ""
	}
	rest = strings.TrimPrefix(rest, "/")
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}

	watchFolder = strings.Trim(watchFolder, "/")
	if watchFolder == "" {
		return rest
	}
	if rest == watchFolder {
		return ""
	}
	if strings.HasPrefix(rest, watchFolder+"/") {
		return strings.TrimPrefix(rest, watchFolder+"/")
	}
	return rest
}
