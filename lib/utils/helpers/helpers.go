package helpers

import (
	"flyer-backend/models"
	"io"
	"mime/multipart"
	"net/url"

	"github.com/pkg/errors"
)

// ReadMultipartFile читает загруженный файл целиком, не больше limit байт
func ReadMultipartFile(header *multipart.FileHeader, limit int64) (models.File, error) {
	if limit > 0 && header.Size > limit {
		return models.File{}, models.ErrImageTooLarge
	}
	reader, err := header.Open()
	if err != nil {
		return models.File{}, errors.Wrap(err, "ошибка открытия файла")
	}
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		return models.File{}, errors.Wrap(err, "ошибка чтения файла")
	}
	return models.File{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// ContentDisposition заголовок для отдачи файла с именем в utf-8
func ContentDisposition(disposition, fileName string) string {
	return disposition + `; filename*=UTF-8''` + url.PathEscape(fileName)
}
