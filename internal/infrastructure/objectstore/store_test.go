package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"

	"tomato-health/internal/domain/port"
)

func TestFileStore_PutOpenDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "7/leaf.png", []byte("png-bytes"), "image/png"))

	rc, err := store.Open(ctx, "7/leaf.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "7/leaf.png"))
	_, err = store.Open(ctx, "7/leaf.png")
	require.ErrorIs(t, err, port.ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, "7/leaf.png"), port.ErrNotFound)
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Put(context.Background(), "../escape.png", []byte("x"), "image/png")
	require.Error(t, err)
}

type fakeMinio struct {
	bucketExists bool
	made         []string
	objects      map[string][]byte
	removeErr    error
}

func (f *fakeMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	f.made = append(f.made, bucketName)
	return nil
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucketName+"/"+objectName] = data
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, nil
}

func (f *fakeMinio) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	return nil, minio.ErrorResponse{Code: "NoSuchKey"}
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return f.removeErr
}

func TestMinioStore_EnsureBucket(t *testing.T) {
	fake := &fakeMinio{objects: map[string][]byte{}}
	store := &MinioStore{client: fake, bucket: "leaves"}

	require.NoError(t, store.ensureBucket(context.Background(), ""))
	require.Equal(t, []string{"leaves"}, fake.made)

	fake.bucketExists = true
	fake.made = nil
	require.NoError(t, store.ensureBucket(context.Background(), ""))
	require.Empty(t, fake.made)
}

func TestMinioStore_Put(t *testing.T) {
	fake := &fakeMinio{objects: map[string][]byte{}}
	store := &MinioStore{client: fake, bucket: "leaves"}

	require.NoError(t, store.Put(context.Background(), "1/a.jpg", []byte("jpeg"), "image/jpeg"))
	require.Equal(t, []byte("jpeg"), fake.objects["leaves/1/a.jpg"])
}

func TestMinioStore_MissingObject(t *testing.T) {
	fake := &fakeMinio{objects: map[string][]byte{}}
	store := &MinioStore{client: fake, bucket: "leaves"}

	_, err := store.Open(context.Background(), "1/missing.jpg")
	require.ErrorIs(t, err, port.ErrNotFound)

	fake.removeErr = errors.New("boom")
	require.EqualError(t, store.Delete(context.Background(), "1/a.jpg"), "boom")
}
