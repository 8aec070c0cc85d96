package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		assert.Error(t, err)
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := &config.DocumentsConfig{
			S3Region:    "ap-southeast-2",
			S3AccessKey: "key",
			S3SecretKey: "secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		assert.Error(t, err)
	})
}

func TestNewS3ObjectStorage_Defaults(t *testing.T) {
	cfg := &config.DocumentsConfig{
		S3Bucket:    "vetdesk-documents",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}

	s, err := NewS3ObjectStorage(cfg)
	require.NoError(t, err)

	assert.Equal(t, "vetdesk-documents", s.GetBucket())
	assert.Equal(t, 15*time.Minute, s.presignExpiration)
}

func TestNewS3ObjectStorage_Options(t *testing.T) {
	cfg := &config.DocumentsConfig{
		S3Bucket:    "vetdesk-documents",
		S3Region:    "ap-southeast-2",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}

	s, err := NewS3ObjectStorage(cfg,
		WithLogger(zap.NewNop()),
		WithPresignExpiration(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, s.presignExpiration)
}

func TestNewS3ObjectStorage_CustomEndpoint(t *testing.T) {
	t.Run("scheme added when omitted", func(t *testing.T) {
		cfg := &config.DocumentsConfig{
			S3Bucket:       "vetdesk-documents",
			S3Endpoint:     "minio.local:9000",
			S3AccessKey:    "key",
			S3SecretKey:    "secret",
			S3UsePathStyle: true,
		}
		_, err := NewS3ObjectStorage(cfg)
		assert.NoError(t, err)
	})

	t.Run("explicit http endpoint", func(t *testing.T) {
		cfg := &config.DocumentsConfig{
			S3Bucket:    "vetdesk-documents",
			S3Endpoint:  "http://localhost:9000",
			S3AccessKey: "key",
			S3SecretKey: "secret",
		}
		_, err := NewS3ObjectStorage(cfg)
		assert.NoError(t, err)
	})
}
