package models

type FileType string

const (
	FileTypePromoImage   FileType = "promo_image"
	FileTypeProductImage FileType = "product_image"
	FileTypeBrandLogo    FileType = "brand_logo"
	FileTypeCategoryIcon FileType = "category_icon"
)

// AllowedImageTypes допустимые форматы загружаемых изображений
var AllowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type File struct {
	FileName    string
	ContentType string
	Body        []byte
}
