package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMediaStore records uploads and deletes in memory
type fakeMediaStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: make(map[string][]byte)}
}

func (f *fakeMediaStore) Upload(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.objects[key] = raw
	return f.URL(key), nil
}

func (f *fakeMediaStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeMediaStore) URL(key string) string {
	return "https://cdn.test/" + key
}

func TestImageService_UploadWithTags(t *testing.T) {
	t.Parallel()

	db := initTestDB(t)
	media := newFakeMediaStore()
	svc := NewImageService(db, media)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")

	image, err := svc.Upload(ctx, owner.ID, "shot.jpg", "image/jpeg",
		strings.NewReader("jpeg-bytes"), "Golden hour", []string{"Sunset", "  street ", ""})
	require.NoError(t, err)
	assert.Contains(t, image.URL, "https://cdn.test/images/")
	require.Len(t, media.objects, 1)

	loaded, err := svc.Get(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "Golden hour", loaded.Description)

	// Tag names are normalized, blanks dropped
	names := make([]string, 0, len(loaded.Tags))
	for _, tag := range loaded.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"sunset", "street"}, names)
}

func TestImageService_UploadTooManyTags(t *testing.T) {
	t.Parallel()

	db := initTestDB(t)
	svc := NewImageService(db, newFakeMediaStore())

	owner := seedUser(t, db, "alice")

	_, err := svc.Upload(context.Background(), owner.ID, "shot.jpg", "image/jpeg",
		strings.NewReader("jpeg-bytes"), "",
		[]string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, ErrTooManyTags)
}

func TestImageService_DeleteRemovesRowAndObject(t *testing.T) {
	t.Parallel()

	db := initTestDB(t)
	media := newFakeMediaStore()
	svc := NewImageService(db, media)
	ctx := context.Background()

	owner := seedUser(t, db, "alice")
	image, err := svc.Upload(ctx, owner.ID, "shot.jpg", "image/jpeg",
		strings.NewReader("jpeg-bytes"), "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, image.ID))
	assert.Len(t, media.deleted, 1)
	assert.Empty(t, media.objects)

	_, err = svc.Get(ctx, image.ID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestImageService_ListByUser(t *testing.T) {
	t.Parallel()

	db := initTestDB(t)
	svc := NewImageService(db, newFakeMediaStore())
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Upload(ctx, alice.ID, "a.jpg", "image/jpeg", strings.NewReader("a"), "", nil)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, bob.ID, "b.jpg", "image/jpeg", strings.NewReader("b"), "", nil)
	require.NoError(t, err)

	images, err := svc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, alice.ID, images[0].UserID)
}
