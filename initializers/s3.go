package initializers

import (
	"context"
	"flyer-backend/config"
	s3client "flyer-backend/s3"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

var S3 s3client.Provider

func InitS3(ctx context.Context) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		panic("Ошибка инициализации клиента S3: " + err.Error())
	}
	S3 = s3client.NewInstance(minioClient, config.Conf.S3.BucketName)

	// бакет создается при первом запуске, ошибка соединения не останавливает сервис
	if err = S3.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("S3 недоступно, загрузка изображений не будет работать")
		return
	}
	log.WithField("bucket", config.Conf.S3.BucketName).Info("S3 клиент успешно инициализирован")
}
