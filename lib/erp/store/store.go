package erpstore

import (
	"context"
	erpconnector "flyer-backend/lib/erp/connector"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErpProduct товар ERP с ценами акции
type ErpProduct struct {
	EAN              string              `gorm:"column:EAN" json:"ean"`
	Name             string              `gorm:"column:Nazev" json:"name"`
	ActionPrice      decimal.NullDecimal `gorm:"column:AkcniCena" json:"action_price"`
	OriginalPrice    decimal.NullDecimal `gorm:"column:CenaMO" json:"original_price"`
	InstallationType *string             `gorm:"column:TypInstalace" json:"installation_type"`
	Discontinued     bool                `gorm:"column:Vyrazeno" json:"discontinued"`
}

type Provider interface {
	FindByEAN(ctx context.Context, ean string, actionID *string) (rec *ErpProduct, err error)
	// Discontinued признак вывода из ассортимента по найденным EAN, отсутствующих в ERP в ответе нет
	Discontinued(ctx context.Context, eans []string) (result map[string]bool, err error)
}

const batchSize = 1000

func NewInstance(conn erpconnector.Provider, productsTable, actionPricesTable string) Provider {
	return &impl{
		conn:              conn,
		productsTable:     productsTable,
		actionPricesTable: actionPricesTable,
	}
}

type impl struct {
	conn              erpconnector.Provider
	productsTable     string
	actionPricesTable string
}

func (i impl) FindByEAN(ctx context.Context, ean string, actionID *string) (*ErpProduct, error) {
	query := fmt.Sprintf(`SELECT TOP 1 z.EAN, z.Nazev, a.AkcniCena, a.CenaMO, z.TypInstalace, z.Vyrazeno
FROM %s z
LEFT JOIN %s a ON a.EAN = z.EAN AND (? IS NULL OR a.IdAkce = ?)
WHERE z.EAN = ?
ORDER BY a.IdAkce DESC`, i.productsTable, i.actionPricesTable)
	list := []ErpProduct{}
	err := i.conn.Do(ctx, func(tx *gorm.DB) error {
		return tx.Raw(query, actionID, actionID, strings.TrimSpace(ean)).Scan(&list).Error
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (i impl) Discontinued(ctx context.Context, eans []string) (map[string]bool, error) {
	result := map[string]bool{}
	query := fmt.Sprintf(`SELECT EAN, Vyrazeno FROM %s WHERE EAN IN ?`, i.productsTable)
	for start := 0; start < len(eans); start += batchSize {
		end := min(start+batchSize, len(eans))
		list := []ErpProduct{}
		err := i.conn.Do(ctx, func(tx *gorm.DB) error {
			return tx.Raw(query, eans[start:end]).Scan(&list).Error
		})
		if err != nil {
			return nil, err
		}
		for _, rec := range list {
			result[strings.TrimSpace(rec.EAN)] = rec.Discontinued
		}
	}
	return result, nil
}
