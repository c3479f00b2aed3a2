package xlsexport

import (
	"bytes"
	verificationapimodels "flyer-backend/models/api/verification"
	dbmodels "flyer-backend/models/db"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportVerification(flyer dbmodels.Flyer, report verificationapimodels.VerificationView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const reportSheet = "Проверка ERP"

var verificationColumns = []column{
	{title: "EAN", width: 18},
	{title: "Товар", width: 45},
	{title: "Ошибки", width: 70},
}

func (i impl) ExportVerification(flyer dbmodels.Flyer, report verificationapimodels.VerificationView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа")
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания стилей xlsx")
	}
	row, err := writeSummary(f, styles, flyer, report)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования сводки в xlsx")
	}
	row, err = writeHeader(f, reportSheet, styles, row, verificationColumns)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if err = writeVerificationErrors(f, styles, report, row); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
	}
	return f.WriteToBuffer()
}

func summaryResult(report verificationapimodels.VerificationView) string {
	switch {
	case !report.ErpAvailable:
		return "не выполнена, ERP недоступна"
	case !report.Passed:
		return fmt.Sprintf("найдены ошибки (%d)", len(report.Errors))
	default:
		return "пройдена"
	}
}

// writeSummary возвращает номер последней занятой строки с учетом отступа
func writeSummary(f *excelize.File, styles sheetStyles, flyer dbmodels.Flyer, report verificationapimodels.VerificationView) (int, error) {
	lines := [][2]interface{}{
		{"Листовка", flyer.Name},
		{"Период", fmt.Sprintf("%s - %s", flyer.ValidFrom.Format("02.01.2006"), flyer.ValidTo.Format("02.01.2006"))},
		{"Дата проверки", report.Date.Format("02.01.2006 15:04")},
		{"Проверено товаров", report.CheckedProducts},
		{"Результат", summaryResult(report)},
	}
	for idx, line := range lines {
		row := idx + 1
		if err := writeCell(f, reportSheet, 1, row, line[0]); err != nil {
			return row, err
		}
		if err := writeCell(f, reportSheet, 2, row, line[1]); err != nil {
			return row, err
		}
	}
	if err := styleRange(f, reportSheet, styles.label, 1, 1, 1, len(lines)); err != nil {
		return len(lines), err
	}
	return len(lines) + 1, nil
}

func writeVerificationErrors(f *excelize.File, styles sheetStyles, report verificationapimodels.VerificationView, headerRow int) error {
	if len(report.Errors) == 0 {
		return nil
	}
	for idx, item := range report.Errors {
		row := headerRow + idx + 1
		values := []interface{}{item.EAN, item.ProductName, strings.Join(item.Errors, "\n")}
		for col, value := range values {
			if err := writeCell(f, reportSheet, col+1, row, value); err != nil {
				return err
			}
		}
	}
	return styleRange(f, reportSheet, styles.data,
		1, headerRow+1, len(verificationColumns), headerRow+len(report.Errors))
}
