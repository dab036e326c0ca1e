package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/droneflow/droneflow-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	headErr      error
	created      []string
	putErr       error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeObjectStore) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeObjectStore) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = append(f.created, aws.ToString(params.Bucket))
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeObjectStore) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Key)
	f.objects[key] = body
	f.contentTypes[key] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestArchiveObjectKey(t *testing.T) {
	assert.Equal(t, "closed-months/2024/03.json", ArchiveObjectKey(domain.MonthKey{Year: 2024, Month: 3}))
	assert.Equal(t, "closed-months/2023/12.json", ArchiveObjectKey(domain.MonthKey{Year: 2023, Month: 12}))
}

func TestS3ArchiveRepository_ExportAndRemove(t *testing.T) {
	store := newFakeObjectStore()
	repo := newS3ArchiveRepository(store, "archives")
	key := domain.MonthKey{Year: 2024, Month: 3}

	archive := domain.ClosedMonth{
		ID:        "m1",
		Key:       key,
		Label:     key.Label(),
		NetProfit: decimal.RequireFromString("3000.50"),
		ClosedAt:  time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Export(context.Background(), archive))

	body, ok := store.objects["closed-months/2024/03.json"]
	require.True(t, ok)
	assert.Equal(t, "application/json", store.contentTypes["closed-months/2024/03.json"])

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "3/2024", doc["monthYear"])
	assert.Equal(t, float64(3), doc["month"])
	assert.Equal(t, "m1", doc["id"])
	assert.Equal(t, "3000.5", doc["netProfit"])

	require.NoError(t, repo.Remove(context.Background(), key))
	assert.Empty(t, store.objects)
}

func TestS3ArchiveRepository_ExportError(t *testing.T) {
	store := newFakeObjectStore()
	store.putErr = errors.New("throttled")
	repo := newS3ArchiveRepository(store, "archives")

	err := repo.Export(context.Background(), domain.ClosedMonth{Key: domain.MonthKey{Year: 2024, Month: 1}})
	assert.ErrorContains(t, err, "throttled")
}

func TestS3ArchiveRepository_EnsureBucket(t *testing.T) {
	t.Run("existing bucket", func(t *testing.T) {
		store := newFakeObjectStore()
		require.NoError(t, newS3ArchiveRepository(store, "archives").ensureBucket(context.Background()))
		assert.Empty(t, store.created)
	})

	t.Run("missing bucket is created", func(t *testing.T) {
		store := newFakeObjectStore()
		store.headErr = &types.NotFound{}
		require.NoError(t, newS3ArchiveRepository(store, "archives").ensureBucket(context.Background()))
		assert.Equal(t, []string{"archives"}, store.created)
	})

	t.Run("permission error is returned", func(t *testing.T) {
		store := newFakeObjectStore()
		store.headErr = errors.New("access denied")
		err := newS3ArchiveRepository(store, "archives").ensureBucket(context.Background())
		assert.ErrorContains(t, err, "permission denied")
		assert.Empty(t, store.created)
	})
}
