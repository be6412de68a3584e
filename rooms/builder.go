package rooms

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/seatmap"
	"github.com/paologalligit/cinema-seeder/utils"
)

type Builder struct {
	rng   *rand.Rand
	seats *seatmap.Generator
	now   func() time.Time
}

func NewBuilder(rng *rand.Rand, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{
		rng:   rng,
		seats: seatmap.New(rng),
		now:   now,
	}
}

// Build creates one room per requested slot of the cinema. Entries without an
// id or with a non-positive room count yield no rooms.
func (b *Builder) Build(entry entities.CinemaEntry) []entities.Room {
	if entry.CinemaId == "" || entry.RoomCount <= 0 {
		return nil
	}

	now := b.now()
	rooms := make([]entities.Room, 0, entry.RoomCount)
	for i := 1; i <= entry.RoomCount; i++ {
		rooms = append(rooms, b.buildRoom(entry.CinemaId, i, now))
	}
	return rooms
}

func (b *Builder) buildRoom(cinemaId string, slot int, now time.Time) entities.Room {
	seatMap := b.seats.Generate()
	return entities.Room{
		RoomId:                   RoomId(cinemaId, slot),
		CinemaId:                 cinemaId,
		RoomNumber:               strconv.Itoa(slot),
		Name:                     fmt.Sprintf("Phòng %d", slot),
		Type:                     constant.RoomTypes[b.rng.Intn(len(constant.RoomTypes))],
		Capacity:                 seatMap.Metadata.TotalSellableSeats,
		Status:                   constant.ROOM_STATUS_ACTIVE,
		Features:                 utils.Sample(b.rng, constant.RoomFeatures, constant.FEATURES_PER_ROOM),
		SeatMap:                  seatMap,
		LastMaintenance:          utils.TimeBetween(b.rng, now.AddDate(-1, 0, 0), now),
		NextMaintenanceScheduled: utils.TimeBetween(b.rng, now, MaintenanceHorizon(now)),
	}
}

func RoomId(cinemaId string, slot int) string {
	return fmt.Sprintf("%s_room_%d", cinemaId, slot)
}

// MaintenanceHorizon is the last day maintenance can be scheduled for: the end
// of the year following now.
func MaintenanceHorizon(now time.Time) time.Time {
	return time.Date(now.Year()+1, time.December, 31, 23, 59, 59, 0, time.UTC)
}
