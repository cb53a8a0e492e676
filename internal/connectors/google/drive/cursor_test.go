package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	c := newCursor("folder-1", "12345")

	decoded, err := DecodeCursor(c.String())

	require.NoError(t, err)
	assert.Equal(t, c, decoded)
	assert.True(t, decoded.Resumes("folder-1"))
	assert.False(t, decoded.Resumes("folder-2"))
}

func TestDecodeCursor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty is the zero cursor", input: ""},
		{name: "not base64", input: "%%%", wantErr: true},
		{name: "not json", input: "bm90IGpzb24", wantErr: true},
		{name: "future version", input: "eyJ2Ijo5OX0", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := DecodeCursor(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCursor)
				return
			}
			require.NoError(t, err)
			assert.False(t, c.Resumes(""))
		})
	}
}
