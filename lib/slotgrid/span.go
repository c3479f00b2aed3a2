package slotgrid

import (
	"flyer-backend/models"

	"github.com/pkg/errors"
)

// Dimensions ширина и высота сетки. Ячейки нумеруются слева направо, сверху вниз.
func Dimensions(layout models.LayoutType) (width, height int, err error) {
	switch layout {
	case models.Layout8:
		return 4, 2, nil
	case models.Layout6:
		return 3, 2, nil
	case models.Layout4:
		return 2, 2, nil
	case models.Layout2:
		return 2, 1, nil
	}
	return 0, 0, errors.Wrapf(models.ErrInvalidLayout, "layout=%v", layout)
}

// MaxSlots количество ячеек на странице со схемой layout
func MaxSlots(layout models.LayoutType) (int, error) {
	width, height, err := Dimensions(layout)
	if err != nil {
		return 0, err
	}
	return width * height, nil
}

func IsValidPromoSize(size models.PromoSize) bool {
	switch size {
	case models.PromoSizeSingle, models.PromoSizeHorizontal, models.PromoSizeSquare,
		models.PromoSizeFullPage, models.PromoSizeHeader2x1, models.PromoSizeHeader2x2:
		return true
	}
	return false
}

// ComputeSpan ячейки, которые занимает промо-изображение размера size с якорем в anchor
func ComputeSpan(anchor int, size models.PromoSize, layout models.LayoutType) ([]int, error) {
	width, height, err := Dimensions(layout)
	if err != nil {
		return nil, err
	}
	return computeSpan(anchor, size, width, height)
}

func computeSpan(anchor int, size models.PromoSize, width, height int) ([]int, error) {
	total := width * height
	if anchor < 0 || anchor >= total {
		return nil, errors.Wrapf(models.ErrInvalidPlacement, "anchor=%v вне сетки %vx%v", anchor, width, height)
	}
	row, col := anchor/width, anchor%width
	hasRight := col+1 < width
	hasBelow := row+1 < height

	switch size {
	case models.PromoSizeSingle:
		return []int{anchor}, nil
	case models.PromoSizeHorizontal:
		if !hasRight {
			break
		}
		return []int{anchor, anchor + 1}, nil
	case models.PromoSizeSquare:
		if !hasRight || !hasBelow {
			break
		}
		return []int{anchor, anchor + 1, anchor + width, anchor + width + 1}, nil
	case models.PromoSizeFullPage:
		if anchor != 0 {
			break
		}
		span := make([]int, 0, total)
		for i := 0; i < total; i++ {
			span = append(span, i)
		}
		return span, nil
	case models.PromoSizeHeader2x1:
		if row != 0 || !hasRight {
			break
		}
		return []int{anchor, anchor + 1}, nil
	case models.PromoSizeHeader2x2:
		if row != 0 || !hasRight || !hasBelow {
			break
		}
		return []int{anchor, anchor + 1, anchor + width, anchor + width + 1}, nil
	default:
		return nil, errors.Wrapf(models.ErrInvalidPromoSize, "size=%v", size)
	}
	return nil, errors.Wrapf(models.ErrInvalidPlacement, "size=%v, anchor=%v, сетка %vx%v", size, anchor, width, height)
}
