package seatmap

import (
	"fmt"
	"math/rand"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/utils"
)

type Generator struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate draws the room dimensions and lays out a fresh seat map.
func (g *Generator) Generate() entities.SeatMap {
	rows := utils.IntBetween(g.rng, constant.MIN_ROWS, constant.MAX_ROWS)
	cols := utils.IntBetween(g.rng, constant.MIN_COLS, constant.MAX_COLS)
	return Build(rows, cols)
}

// Build lays out a rows x cols grid. Rooms wider than CORRIDOR_MIN_COLS get an
// aisle at column 4 and at column cols-3; the last two rows are vip and the
// last row turns every fifth column into a couple seat.
func Build(rows, cols int) entities.SeatMap {
	rows = min(rows, len(constant.ROW_LETTERS))

	seatMap := entities.SeatMap{
		Rows: make(entities.Platea, 0, rows),
		Metadata: entities.SeatMapMetadata{
			SeatTypes: seatTypes(),
			Screen: entities.Screen{
				Label:    constant.SCREEN_LABEL,
				Position: constant.SCREEN_POSITION,
			},
		},
	}

	for i := 0; i < rows; i++ {
		rowId := string(constant.ROW_LETTERS[i])
		row := entities.SeatRow{Id: rowId, Seats: make([]entities.Seat, 0, cols)}
		for j := 1; j <= cols; j++ {
			if isCorridor(j, cols) {
				row.Seats = append(row.Seats, entities.Seat{Type: entities.SeatCorridor})
				continue
			}
			row.Seats = append(row.Seats, entities.Seat{
				Id:   fmt.Sprintf("%s%d", rowId, j),
				Type: seatKind(i, j, rows),
			})
		}
		seatMap.Rows = append(seatMap.Rows, row)
	}

	seatMap.Metadata.TotalSeats = seatMap.Rows.CountSeats()
	seatMap.Metadata.TotalSellableSeats = seatMap.Rows.CountSellableSeats()
	return seatMap
}

func isCorridor(col, cols int) bool {
	return cols > constant.CORRIDOR_MIN_COLS && (col == 4 || col == cols-3)
}

func seatKind(row, col, rows int) entities.SeatKind {
	kind := entities.SeatStandard
	if row >= rows-2 {
		kind = entities.SeatVip
	}
	if row == rows-1 && col%5 == 0 {
		kind = entities.SeatCouple
	}
	return kind
}

func seatTypes() map[string]entities.SeatTypeInfo {
	return map[string]entities.SeatTypeInfo{
		string(entities.SeatStandard): {BasePrice: constant.STANDARD_PRICE, Color: "#A0A0A0", Label: "Standard"},
		string(entities.SeatVip):      {BasePrice: constant.VIP_PRICE, Color: "#D4AF37", Label: "VIP"},
		string(entities.SeatCouple):   {BasePrice: constant.COUPLE_PRICE, Color: "#FF69B4", Label: "Couple"},
	}
}
