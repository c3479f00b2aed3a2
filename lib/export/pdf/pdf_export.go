package pdfexport

import (
	"bytes"
	"flyer-backend/lib/slotgrid"
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	pageMargin   = 10.0
	headerHeight = 14.0
	cellPadding  = 2.0
)

var supportedImageTypes = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}

type Provider interface {
	// RenderFlyer images: содержимое файлов промо-изображений по идентификатору файла
	RenderFlyer(flyer dbmodels.Flyer, images map[string]*models.File) ([]byte, error)
}

var Instance Provider

func NewHandler(fontDir string) {
	Instance = impl{fontDir: fontDir}
}

type impl struct {
	fontDir string
}

func (i impl) RenderFlyer(flyer dbmodels.Flyer, images map[string]*models.File) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("RenderFlyer panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("L", "mm", "A4", i.fontDir)
	tr := i.setFont(pdf)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	for _, file := range images {
		if err = putImg(pdf, file); err != nil {
			return nil, err
		}
	}
	for _, page := range flyer.Pages {
		if err = drawPage(pdf, tr, flyer, page); err != nil {
			return nil, err
		}
	}
	if len(flyer.Pages) == 0 {
		pdf.AddPage()
		pdf.Cell(0, 10, tr(flyer.Name))
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// setFont подключает юникодный шрифт из каталога шрифтов, без него используется Helvetica
func (i impl) setFont(pdf *fpdf.Fpdf) func(string) string {
	if _, err := os.Stat(filepath.Join(i.fontDir, "DejaVuSans.ttf")); err == nil {
		pdf.AddUTF8Font("DejaVu", "", "DejaVuSans.ttf")
		pdf.AddUTF8Font("DejaVu", "B", "DejaVuSans-Bold.ttf")
		pdf.SetFont("DejaVu", "", 10)
		return func(s string) string { return s }
	}
	pdf.SetFont("Helvetica", "", 10)
	return pdf.UnicodeTranslatorFromDescriptor("")
}

func drawPage(pdf *fpdf.Fpdf, tr func(string) string, flyer dbmodels.Flyer, page dbmodels.FlyerPage) error {
	width, height, err := slotgrid.Dimensions(page.LayoutType)
	if err != nil {
		return err
	}
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// заголовок
	pdf.SetFontStyle("B")
	pdf.SetFontSize(14)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(pageW-2*pageMargin, 8, tr(flyer.Name), "", 0, "L", false, 0, "")
	pdf.SetFontStyle("")
	pdf.SetFontSize(9)
	period := fmt.Sprintf("%s - %s  |  %d", flyer.ValidFrom.Format("02.01.2006"), flyer.ValidTo.Format("02.01.2006"), page.PageNumber)
	pdf.SetXY(pageMargin, pageMargin+7)
	pdf.CellFormat(pageW-2*pageMargin, 5, tr(period), "", 0, "L", false, 0, "")

	cellW := (pageW - 2*pageMargin) / float64(width)
	cellH := (pageH - 2*pageMargin - headerHeight) / float64(height)
	cellRect := func(position int) (x, y float64) {
		row, col := position/width, position%width
		return pageMargin + float64(col)*cellW, pageMargin + headerHeight + float64(row)*cellH
	}

	for _, slot := range page.Slots {
		x, y := cellRect(slot.Position)
		if slot.IsPromo() {
			if slot.AnchorPosition == nil || *slot.AnchorPosition != slot.Position {
				continue
			}
			drawPromo(pdf, slot, x, y, cellW, cellH, width)
			continue
		}
		if slot.Product != nil {
			drawProduct(pdf, tr, *slot.Product, x, y, cellW, cellH)
		}
	}
	return pdf.Error()
}

func drawProduct(pdf *fpdf.Fpdf, tr func(string) string, product dbmodels.Product, x, y, w, h float64) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.Rect(x, y, w, h, "D")
	if product.Brand != nil {
		r, g, b := hexColor(product.Brand.Color)
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y, w, 4, "F")
		pdf.SetXY(x+cellPadding, y+5)
		pdf.SetFontSize(8)
		pdf.CellFormat(w-2*cellPadding, 4, tr(product.Brand.Name), "", 0, "L", false, 0, "")
	}
	pdf.SetFontSize(10)
	pdf.SetXY(x+cellPadding, y+10)
	pdf.MultiCell(w-2*cellPadding, 4.5, tr(product.Name), "", "L", false)
	pdf.SetXY(x+cellPadding, y+h-16)
	pdf.SetFontSize(8)
	pdf.CellFormat(w-2*cellPadding, 4, "EAN "+product.EAN, "", 0, "L", false, 0, "")

	if product.OriginalPrice.Valid {
		pdf.SetXY(x+cellPadding, y+h-12)
		text := product.OriginalPrice.Decimal.StringFixed(2)
		pdf.CellFormat(w-2*cellPadding, 4, text, "", 0, "L", false, 0, "")
		textW := pdf.GetStringWidth(text)
		pdf.Line(x+cellPadding, y+h-10, x+cellPadding+textW, y+h-10)
	}
	if product.Price.Valid {
		pdf.SetXY(x+cellPadding, y+h-8)
		pdf.SetFontStyle("B")
		pdf.SetFontSize(14)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(w-2*cellPadding, 6, product.Price.Decimal.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFontStyle("")
	}
}

func drawPromo(pdf *fpdf.Fpdf, slot dbmodels.FlyerSlot, x, y, cellW, cellH float64, gridWidth int) {
	cols, rows := spanBox(slot.SpanCells, gridWidth)
	w, h := float64(cols)*cellW, float64(rows)*cellH
	if slot.PromoImage == nil || slot.PromoImage.File == nil || pdf.GetImageInfo(slot.PromoImage.File.ObjectKey) == nil {
		pdf.SetFillColor(230, 230, 230)
		pdf.Rect(x, y, w, h, "F")
		return
	}
	pdf.ImageOptions(slot.PromoImage.File.ObjectKey, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
}

// spanBox размер диапазона промо в ячейках
func spanBox(cells []int64, gridWidth int) (cols, rows int) {
	if len(cells) == 0 {
		return 1, 1
	}
	minRow, maxRow := int(cells[0])/gridWidth, int(cells[0])/gridWidth
	minCol, maxCol := int(cells[0])%gridWidth, int(cells[0])%gridWidth
	for _, c := range cells {
		row, col := int(c)/gridWidth, int(c)%gridWidth
		minRow, maxRow = min(minRow, row), max(maxRow, row)
		minCol, maxCol = min(minCol, col), max(maxCol, col)
	}
	return maxCol - minCol + 1, maxRow - minRow + 1
}

func hexColor(color string) (r, g, b int) {
	color = strings.TrimPrefix(color, "#")
	if len(color) != 6 {
		return 200, 200, 200
	}
	value, err := strconv.ParseUint(color, 16, 32)
	if err != nil {
		return 200, 200, 200
	}
	return int(value >> 16 & 0xFF), int(value >> 8 & 0xFF), int(value & 0xFF)
}

func putImg(pdf *fpdf.Fpdf, fileData *models.File) (err error) {
	if fileData == nil {
		return nil
	}
	options := fpdf.ImageOptions{
		ReadDpi:   false,
		ImageType: "",
	}

	if options.ImageType == "" {
		options.ImageType, err = GetImgType(fileData.FileName)
		if err != nil {
			return err
		}
	}
	// webp fpdf не поддерживает, такие промо выводятся заглушкой
	if !supportedImageTypes[strings.ToLower(options.ImageType)] {
		return nil
	}
	reader := bytes.NewReader(fileData.Body)
	pdf.RegisterImageOptionsReader(fileData.FileName, options, reader)
	return pdf.Error()
}

func GetImgType(fileName string) (string, error) {
	pos := strings.LastIndex(fileName, ".")
	if pos < 0 {
		return "", errors.Errorf("не удалось получить расширение файла: %s", fileName)
	}
	return fileName[pos+1:], nil
}
