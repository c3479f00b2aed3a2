package promoimagehandler

import (
	"context"
	"flyer-backend/models"
	promoapimodels "flyer-backend/models/api/promo"
	dbmodels "flyer-backend/models/db"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type promoStoreMock struct {
	list   map[string]dbmodels.PromoImage
	placed map[string]bool
}

func (p *promoStoreMock) Create(rec dbmodels.PromoImage) (string, error) {
	rec.ID = uuid.NewString()
	p.list[rec.ID] = rec
	return rec.ID, nil
}

func (p *promoStoreMock) GetByID(id string) (*dbmodels.PromoImage, error) {
	rec, ok := p.list[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (p *promoStoreMock) List(supplierID string) ([]dbmodels.PromoImage, error) {
	result := []dbmodels.PromoImage{}
	for _, rec := range p.list {
		if supplierID == "" || rec.SupplierID == supplierID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (p *promoStoreMock) Delete(id string) error {
	delete(p.list, id)
	return nil
}

func (p *promoStoreMock) IsPlaced(id string) (bool, error) {
	return p.placed[id], nil
}

type filesMock struct {
	files map[string]models.File
	err   error
}

func (f *filesMock) UploadImage(ctx context.Context, info dbmodels.UploadFileInfo, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	id := uuid.NewString()
	f.files[id] = models.File{FileName: info.FileName, ContentType: "image/png", Body: body}
	return id, nil
}

func (f *filesMock) GetFile(ctx context.Context, fileID string) (*models.File, error) {
	file, ok := f.files[fileID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &file, nil
}

func (f *filesMock) DeleteFile(ctx context.Context, fileID string) error {
	delete(f.files, fileID)
	return nil
}

func newTestHandler() (impl, *promoStoreMock, *filesMock) {
	store := &promoStoreMock{list: map[string]dbmodels.PromoImage{}, placed: map[string]bool{}}
	files := &filesMock{files: map[string]models.File{}}
	return impl{store: store, files: files}, store, files
}

func TestPromoImage(t *testing.T) {
	ctx := context.Background()
	request := promoapimodels.PromoImageData{Name: "Jaro", Size: models.PromoSizeHorizontal}
	file := models.File{FileName: "jaro.png", ContentType: "image/png", Body: []byte("png")}

	t.Run(`загрузка и получение`, func(t *testing.T) {
		h, _, files := newTestHandler()
		id, err := h.Upload(ctx, "s1", request, file)
		require.NoError(t, err)
		view, err := h.Get(id, "s1", models.UserRoleSupplier)
		require.NoError(t, err)
		require.Equal(t, models.PromoSizeHorizontal, view.Size)
		image, err := h.GetImage(ctx, id, "admin", models.UserRoleAdmin)
		require.NoError(t, err)
		require.Equal(t, []byte("png"), image.Body)
		require.Len(t, files.files, 1)
	})
	t.Run(`чужое изображение`, func(t *testing.T) {
		h, _, _ := newTestHandler()
		id, err := h.Upload(ctx, "s1", request, file)
		require.NoError(t, err)
		_, err = h.Get(id, "s2", models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrForbidden)
		err = h.Delete(ctx, id, "approver", models.UserRoleApprover)
		require.ErrorIs(t, err, models.ErrForbidden)
		list, err := h.List("s2", models.UserRoleSupplier)
		require.NoError(t, err)
		require.Empty(t, list)
	})
	t.Run(`удаление размещенного запрещено`, func(t *testing.T) {
		h, store, files := newTestHandler()
		id, err := h.Upload(ctx, "s1", request, file)
		require.NoError(t, err)
		store.placed[id] = true
		err = h.Delete(ctx, id, "s1", models.UserRoleSupplier)
		require.ErrorIs(t, err, models.ErrPromoImageInUse)

		store.placed[id] = false
		require.NoError(t, h.Delete(ctx, id, "s1", models.UserRoleSupplier))
		require.Empty(t, store.list)
		require.Empty(t, files.files)
	})
	t.Run(`ошибка загрузки файла`, func(t *testing.T) {
		h, store, files := newTestHandler()
		files.err = models.ErrUnsupportedImage
		_, err := h.Upload(ctx, "s1", request, file)
		require.ErrorIs(t, err, models.ErrUnsupportedImage)
		require.Empty(t, store.list)
	})
}
