package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_PutAndExists(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	err := s.Put(ctx, "invoices/abc.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)

	exists, err := s.Exists(ctx, "invoices/abc.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "invoices/missing.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	data, contentType, ok := s.Object("invoices/abc.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.4"), data)
	assert.Equal(t, "application/pdf", contentType)
}

func TestStubObjectStorage_PutCopiesData(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	buf := []byte("original")
	require.NoError(t, s.Put(ctx, "k", buf, "text/plain"))

	buf[0] = 'X'
	data, _, ok := s.Object("k")
	require.True(t, ok)
	assert.Equal(t, []byte("original"), data)
}

func TestStubObjectStorage_PresignDownload(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	_, _, err := s.PresignDownload(ctx, "invoices/abc.pdf", time.Minute)
	assert.Error(t, err, "presigning a missing object should fail")

	require.NoError(t, s.Put(ctx, "invoices/abc.pdf", []byte("data"), "application/pdf"))

	url, expiresAt, err := s.PresignDownload(ctx, "invoices/abc.pdf", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "invoices/abc.pdf")
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)
}

func TestStubObjectStorage_Delete(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("data"), "text/plain"))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k"))
	assert.Equal(t, 0, s.Len())

	// deleting a missing key is not an error
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestStubObjectStorage_EmptyKeyRejected(t *testing.T) {
	s := NewStubObjectStorage()
	ctx := context.Background()

	assert.Error(t, s.Put(ctx, "", []byte("data"), "text/plain"))
	_, err := s.Exists(ctx, "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, ""))
}
