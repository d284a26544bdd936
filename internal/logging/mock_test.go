package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()
	derived := mock.WithField(FieldKind, "bank").WithError(errors.New("bad"))

	mock.Info("root line")
	derived.Warn("derived line", F(FieldBucket, 2))

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.True(t, mock.HasEntry("WARN", "derived line"))

	warn := mock.GetEntriesByLevel("WARN")
	require.Len(t, warn, 1)
	kind, ok := warn[0].FieldValue(FieldKind)
	assert.True(t, ok)
	assert.Equal(t, "bank", kind)
	bucket, ok := warn[0].FieldValue(FieldBucket)
	assert.True(t, ok)
	assert.Equal(t, 2, bucket)
	assert.EqualError(t, warn[0].Error, "bad")
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Debug("line")
	mock.Fatalf("fatal %d", 1)
	assert.True(t, mock.HasEntry("FATAL", "fatal 1"))
	assert.Len(t, mock.GetEntries(), 2)
}
