package filestorage

import (
	"context"
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type s3Mock struct {
	objects map[string][]byte
	types   map[string]string
}

func newS3Mock() *s3Mock {
	return &s3Mock{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *s3Mock) MakeBucket(ctx context.Context) error { return nil }

func (s *s3Mock) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	s.objects[key] = body
	s.types[key] = contentType
	return nil
}

func (s *s3Mock) GetObject(ctx context.Context, key string) ([]byte, error) {
	body, ok := s.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return body, nil
}

func (s *s3Mock) RemoveObject(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type filesStoreMock struct {
	files map[string]dbmodels.FileStorage
	err   error
}

func (f *filesStoreMock) Create(rec dbmodels.FileStorage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	rec.ID = "file-" + rec.ObjectKey
	f.files[rec.ID] = rec
	return rec.ID, nil
}

func (f *filesStoreMock) GetByID(id string) (*dbmodels.FileStorage, error) {
	rec, ok := f.files[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *filesStoreMock) Delete(id string) error {
	delete(f.files, id)
	return nil
}

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")

func TestUploadImage(t *testing.T) {
	info := dbmodels.UploadFileInfo{OwnerID: "s1", FileName: "banner.png", FileType: models.FileTypePromoImage, ContentType: "image/jpeg"}

	t.Run(`png сохраняется с типом по содержимому`, func(t *testing.T) {
		s3 := newS3Mock()
		store := &filesStoreMock{files: map[string]dbmodels.FileStorage{}}
		h := impl{s3: s3, store: store, maxImageSize: 1024}
		id, err := h.UploadImage(context.Background(), info, pngHeader)
		require.NoError(t, err)
		rec := store.files[id]
		require.Equal(t, "image/png", rec.ContentType)
		require.True(t, strings.HasPrefix(rec.ObjectKey, "promo_image/"))
		require.True(t, strings.HasSuffix(rec.ObjectKey, ".png"))
		require.Equal(t, "image/png", s3.types[rec.ObjectKey])

		file, err := h.GetFile(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, pngHeader, file.Body)

		require.NoError(t, h.DeleteFile(context.Background(), id))
		require.Empty(t, s3.objects)
		require.Empty(t, store.files)
	})
	t.Run(`не изображение`, func(t *testing.T) {
		h := impl{s3: newS3Mock(), store: &filesStoreMock{files: map[string]dbmodels.FileStorage{}}, maxImageSize: 1024}
		_, err := h.UploadImage(context.Background(), info, []byte("%PDF-1.4 fake"))
		require.ErrorIs(t, err, models.ErrUnsupportedImage)
	})
	t.Run(`превышен размер`, func(t *testing.T) {
		h := impl{s3: newS3Mock(), store: &filesStoreMock{files: map[string]dbmodels.FileStorage{}}, maxImageSize: 10}
		_, err := h.UploadImage(context.Background(), info, pngHeader)
		require.ErrorIs(t, err, models.ErrImageTooLarge)
	})
	t.Run(`ошибка БД удаляет загруженный объект`, func(t *testing.T) {
		s3 := newS3Mock()
		h := impl{s3: s3, store: &filesStoreMock{files: map[string]dbmodels.FileStorage{}, err: errors.New("db down")}, maxImageSize: 1024}
		_, err := h.UploadImage(context.Background(), info, pngHeader)
		require.Error(t, err)
		require.Empty(t, s3.objects)
	})
	t.Run(`файл не найден`, func(t *testing.T) {
		h := impl{s3: newS3Mock(), store: &filesStoreMock{files: map[string]dbmodels.FileStorage{}}}
		_, err := h.GetFile(context.Background(), "nope")
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}
