package models

// LayoutType схема страницы листовки, определяет размер сетки
type LayoutType string

const (
	Layout8 LayoutType = "LAYOUT_8"
	Layout6 LayoutType = "LAYOUT_6"
	Layout4 LayoutType = "LAYOUT_4"
	Layout2 LayoutType = "LAYOUT_2"
)

// PromoSize размер промо-изображения в ячейках сетки
type PromoSize string

const (
	PromoSizeSingle     PromoSize = "SINGLE"
	PromoSizeHorizontal PromoSize = "HORIZONTAL"
	PromoSizeSquare     PromoSize = "SQUARE"
	PromoSizeFullPage   PromoSize = "FULL_PAGE"
	PromoSizeHeader2x1  PromoSize = "HEADER_2X1"
	PromoSizeHeader2x2  PromoSize = "HEADER_2X2"
)
