package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "PackStarted", typ: PackStarted},
		{want: "FileAdded", typ: FileAdded},
		{want: "DirAdded", typ: DirAdded},
		{want: "CycleSkipped", typ: CycleSkipped},
		{want: "UnpackStarted", typ: UnpackStarted},
		{want: "FileExtracted", typ: FileExtracted},
		{want: "DirCreated", typ: DirCreated},
		{want: "VerifyStarted", typ: VerifyStarted},
		{want: "VerifyOK", typ: VerifyOK},
		{want: "VerifyMismatch", typ: VerifyMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
}

func TestEventZeroValue(t *testing.T) {
	var e Event
	assert.Equal(t, Type(0), e.Type)
	assert.True(t, e.Timestamp.IsZero())
	assert.Empty(t, e.Path)
	assert.Zero(t, e.Size)
	require.NoError(t, e.Error)
}

func TestEventFields(t *testing.T) {
	now := time.Now()
	e := Event{
		Type:      FileAdded,
		Timestamp: now,
		Path:      "dir/file.txt",
		Size:      1024,
	}
	assert.Equal(t, FileAdded, e.Type)
	assert.Equal(t, now, e.Timestamp)
	assert.Equal(t, "dir/file.txt", e.Path)
	assert.Equal(t, int64(1024), e.Size)
}
