package xlsexport

import (
	"strconv"

	"github.com/xuri/excelize/v2"
)

// column колонка таблицы отчета
type column struct {
	title string
	width float64
}

// sheetStyles стили создаются один раз на файл
type sheetStyles struct {
	header int
	label  int
	data   int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	font := func(bold bool) *excelize.Font {
		return &excelize.Font{Bold: bold, Family: "Calibri", Size: 11}
	}
	var (
		result sheetStyles
		err    error
	)
	result.header, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      font(true),
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "9BC2E6", Style: 1},
		},
	})
	if err != nil {
		return result, err
	}
	result.label, err = f.NewStyle(&excelize.Style{Font: font(true)})
	if err != nil {
		return result, err
	}
	result.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Font:      font(false),
	})
	return result, err
}

func cellName(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

func writeCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := cellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func styleRange(f *excelize.File, sheet string, style, colFrom, rowFrom, colTo, rowTo int) error {
	first, err := cellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	last, err := cellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

// writeHeader пишет заголовок в строку row+1 и возвращает номер этой строки
func writeHeader(f *excelize.File, sheet string, styles sheetStyles, row int, columns []column) (int, error) {
	row++
	for idx, item := range columns {
		name, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return row, err
		}
		if err = f.SetColWidth(sheet, name, name, item.width); err != nil {
			return row, err
		}
		if err = writeCell(f, sheet, idx+1, row, item.title); err != nil {
			return row, err
		}
	}
	if err := styleRange(f, sheet, styles.header, 1, row, len(columns), row); err != nil {
		return row, err
	}
	// заголовок остается видимым при прокрутке
	err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: "A" + strconv.Itoa(row+1),
		ActivePane:  "bottomLeft",
	})
	return row, err
}

