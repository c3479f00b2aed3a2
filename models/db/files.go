package dbmodels

import "flyer-backend/models"

type FileStorage struct {
	BaseModel
	OwnerID     string          `gorm:"type:varchar(36);index"`
	Name        string          `gorm:"type:varchar(255)"`
	Type        models.FileType `gorm:"type:varchar(50)"`
	ContentType string          `gorm:"type:varchar(100)"`
	Size        int64
	ObjectKey   string `gorm:"type:varchar(255)"`
}

type UploadFileInfo struct {
	OwnerID     string
	FileName    string
	FileType    models.FileType
	ContentType string
}
