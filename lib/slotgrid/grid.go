package slotgrid

import (
	"flyer-backend/models"
	"sort"

	"github.com/pkg/errors"
)

// Occupant содержимое ячеек страницы: товар (одна ячейка) или промо-изображение (диапазон ячеек)
type Occupant struct {
	ProductID    string
	PromoImageID string
	PromoSize    models.PromoSize
	Anchor       int
	Cells        []int
}

func (o Occupant) IsPromo() bool {
	return o.PromoImageID != ""
}

// Grid страница листовки в памяти
type Grid struct {
	layout models.LayoutType
	width  int
	height int
	cells  []*Occupant
}

func NewGrid(layout models.LayoutType) (*Grid, error) {
	width, height, err := Dimensions(layout)
	if err != nil {
		return nil, err
	}
	return &Grid{
		layout: layout,
		width:  width,
		height: height,
		cells:  make([]*Occupant, width*height),
	}, nil
}

// LoadGrid восстанавливает страницу из сохраненных занятых ячеек
func LoadGrid(layout models.LayoutType, occupants []Occupant) (*Grid, error) {
	g, err := NewGrid(layout)
	if err != nil {
		return nil, err
	}
	for _, o := range occupants {
		if o.IsPromo() {
			_, err = g.PlacePromo(o.Anchor, o.PromoSize, o.PromoImageID)
		} else {
			err = g.PlaceProduct(o.Anchor, o.ProductID)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "некорректное содержимое страницы, позиция %v", o.Anchor)
		}
	}
	return g, nil
}

func (g *Grid) Layout() models.LayoutType {
	return g.layout
}

func (g *Grid) Size() int {
	return len(g.cells)
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

// At содержимое ячейки, nil если ячейка свободна или вне сетки
func (g *Grid) At(position int) *Occupant {
	if position < 0 || position >= len(g.cells) {
		return nil
	}
	return g.cells[position]
}

func (g *Grid) IsEmpty() bool {
	for _, c := range g.cells {
		if c != nil {
			return false
		}
	}
	return true
}

func (g *Grid) PlaceProduct(position int, productID string) error {
	if position < 0 || position >= len(g.cells) {
		return errors.Wrapf(models.ErrInvalidPosition, "position=%v", position)
	}
	if g.cells[position] != nil {
		return errors.Wrapf(models.ErrSlotOccupied, "position=%v", position)
	}
	g.cells[position] = &Occupant{
		ProductID: productID,
		Anchor:    position,
		Cells:     []int{position},
	}
	return nil
}

func (g *Grid) RemoveProduct(position int) (productID string, err error) {
	if position < 0 || position >= len(g.cells) {
		return "", errors.Wrapf(models.ErrInvalidPosition, "position=%v", position)
	}
	current := g.cells[position]
	if current == nil || current.IsPromo() {
		return "", errors.Wrapf(models.ErrSlotEmpty, "position=%v", position)
	}
	g.cells[position] = nil
	return current.ProductID, nil
}

// PlacePromo размещает промо-изображение на все ячейки его диапазона. Если хоть одна ячейка занята,
// страница не меняется.
func (g *Grid) PlacePromo(anchor int, size models.PromoSize, promoImageID string) (Occupant, error) {
	span, err := computeSpan(anchor, size, g.width, g.height)
	if err != nil {
		return Occupant{}, err
	}
	for _, cell := range span {
		if g.cells[cell] != nil {
			return Occupant{}, errors.Wrapf(models.ErrSlotConflict, "ячейка %v занята", cell)
		}
	}
	occupant := &Occupant{
		PromoImageID: promoImageID,
		PromoSize:    size,
		Anchor:       anchor,
		Cells:        span,
	}
	for _, cell := range span {
		g.cells[cell] = occupant
	}
	return *occupant, nil
}

// RemovePromo освобождает весь диапазон промо-изображения с якорем anchor
func (g *Grid) RemovePromo(anchor int) (Occupant, error) {
	if anchor < 0 || anchor >= len(g.cells) {
		return Occupant{}, errors.Wrapf(models.ErrInvalidPosition, "anchor=%v", anchor)
	}
	current := g.cells[anchor]
	if current == nil || !current.IsPromo() || current.Anchor != anchor {
		return Occupant{}, errors.Wrapf(models.ErrPromoNotFound, "anchor=%v", anchor)
	}
	cells := make([]*Occupant, len(g.cells))
	copy(cells, g.cells)
	for _, cell := range current.Cells {
		cells[cell] = nil
	}
	g.cells = cells
	return *current, nil
}

// Occupants содержимое страницы по возрастанию якорной ячейки
func (g *Grid) Occupants() []Occupant {
	seen := map[*Occupant]bool{}
	result := []Occupant{}
	for _, c := range g.cells {
		if c == nil || seen[c] {
			continue
		}
		seen[c] = true
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Anchor < result[j].Anchor
	})
	return result
}

// Validate проверяет, что диапазоны содержимого не пересекаются и соответствуют сетке
func (g *Grid) Validate() error {
	owner := make([]int, len(g.cells))
	for i := range owner {
		owner[i] = -1
	}
	for _, o := range g.Occupants() {
		expected := []int{o.Anchor}
		if o.IsPromo() {
			span, err := computeSpan(o.Anchor, o.PromoSize, g.width, g.height)
			if err != nil {
				return err
			}
			expected = span
		}
		if len(expected) != len(o.Cells) {
			return errors.Errorf("диапазон содержимого с якорем %v не соответствует размеру", o.Anchor)
		}
		for idx, cell := range expected {
			if o.Cells[idx] != cell {
				return errors.Errorf("диапазон содержимого с якорем %v не соответствует размеру", o.Anchor)
			}
			if owner[cell] >= 0 {
				return errors.Wrapf(models.ErrSlotConflict, "пересечение в ячейке %v", cell)
			}
			owner[cell] = o.Anchor
		}
	}
	for cell, c := range g.cells {
		if c != nil && owner[cell] != c.Anchor {
			return errors.Errorf("ячейка %v не входит в диапазон своего содержимого", cell)
		}
	}
	return nil
}
