package pdfexport

import (
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRenderFlyer(t *testing.T) {
	t.Run(`страница с товаром и промо без файла`, func(t *testing.T) {
		productID := "p1"
		promoID := "i1"
		anchor := 2
		flyer := dbmodels.Flyer{
			Name:      "Jarní akce",
			ValidFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			ValidTo:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			Pages: []dbmodels.FlyerPage{
				{
					PageNumber: 1,
					LayoutType: models.Layout8,
					Slots: []dbmodels.FlyerSlot{
						{
							Position:  0,
							ProductID: &productID,
							Product: &dbmodels.Product{
								EAN:           "8003437041402",
								Name:          "Vestavná trouba",
								Price:         decimal.NewNullDecimal(decimal.RequireFromString("499")),
								OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString("599")),
								Brand:         &dbmodels.Brand{Name: "Whirlpool", Color: "#FFCC00"},
							},
						},
						{Position: 2, PromoImageID: &promoID, PromoSize: models.PromoSizeSquare, AnchorPosition: &anchor, SpanCells: pq.Int64Array{2, 3, 6, 7}},
						{Position: 3, PromoImageID: &promoID, PromoSize: models.PromoSizeSquare, AnchorPosition: &anchor, SpanCells: pq.Int64Array{2, 3, 6, 7}},
					},
				},
			},
		}
		h := impl{fontDir: t.TempDir()}
		body, err := h.RenderFlyer(flyer, nil)
		require.NoError(t, err)
		require.Equal(t, "%PDF", string(body[:4]))
	})
	t.Run(`неизвестная схема страницы`, func(t *testing.T) {
		flyer := dbmodels.Flyer{Pages: []dbmodels.FlyerPage{{PageNumber: 1, LayoutType: "LAYOUT_3"}}}
		h := impl{fontDir: t.TempDir()}
		_, err := h.RenderFlyer(flyer, nil)
		require.ErrorIs(t, err, models.ErrInvalidLayout)
	})
}

func TestSpanBox(t *testing.T) {
	cols, rows := spanBox(pq.Int64Array{2, 3, 6, 7}, 4)
	require.Equal(t, 2, cols)
	require.Equal(t, 2, rows)
	cols, rows = spanBox(pq.Int64Array{0, 1, 2}, 3)
	require.Equal(t, 3, cols)
	require.Equal(t, 1, rows)
	cols, rows = spanBox(nil, 4)
	require.Equal(t, 1, cols)
	require.Equal(t, 1, rows)
}

func TestHexColor(t *testing.T) {
	r, g, b := hexColor("#FFCC00")
	require.Equal(t, []int{255, 204, 0}, []int{r, g, b})
	r, g, b = hexColor("bad")
	require.Equal(t, []int{200, 200, 200}, []int{r, g, b})
}
