package msgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeFolder(t *testing.T) {
	tests := []struct {
		name        string
		parentPath  string
		watchFolder string
		expected    string
	}{
		{
			name:        "nested folder",
			parentPath:  "/drives/b!x/root:/FSA - State Committee/Receipts/2024",
			watchFolder: "FSA - State Committee",
			expected:    "Receipts/2024",
		},
		{
			name:        "watch folder itself",
			parentPath:  "/drives/b!x/root:/FSA - State Committee",
			watchFolder: "FSA - State Committee",
			expected:    "",
		},
		{
			name:        "escaped path",
			parentPath:  "/drives/b!x/root:/FSA%20-%20State%20Committee/Minutes",
			watchFolder: "FSA - State Committee",
			expected:    "Minutes",
		},
		{
			name:        "library root",
			parentPath:  "/drives/b!x/root:",
			watchFolder: "FSA - State Committee",
			expected:    "",
		},
		{
			name:        "no watch folder",
			parentPath:  "/drives/b!x/root:/Inbox",
			watchFolder: "",
			expected:    "Inbox",
		},
		{
			name:        "similar prefix is not stripped",
			parentPath:  "/drives/b!x/root:/FSA - State Committee Archive",
			watchFolder: "FSA - State Committee",
			expected:    "FSA - State Committee Archive",
		},
		{
			name:        "missing path",
			parentPath:  "",
			watchFolder: "FSA - State Committee",
			expected:    "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, relativeFolder(tc.parentPath, tc.watchFolder))
		})
	}
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "FSA%20-%20State%20Committee/Receipts", escapePath("/FSA - State Committee/Receipts/"))
	assert.Equal(t, "sites/fsa", escapePath("sites/fsa"))
}
