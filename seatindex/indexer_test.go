package seatindex

import (
	"strconv"
	"testing"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
	"github.com/paologalligit/cinema-seeder/seatmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexesSellableSeats(t *testing.T) {
	t.Parallel()
	seatMap := seatmap.Build(8, 14)

	index := Build(seatMap)

	assert.Equal(t, seatMap.Metadata.TotalSellableSeats, index.TotalSeats)
	assert.Len(t, index.SeatStatus, index.TotalSeats)
	for id, state := range index.SeatStatus {
		assert.NotEmpty(t, id)
		assert.Equal(t, constant.SEAT_STATUS_AVAILABLE, state.Status)
		assert.Nil(t, state.HoldStartedAt)
		assert.Nil(t, state.BookingId)
	}
	assert.Contains(t, index.SeatStatus, "A1")
	assert.NotContains(t, index.SeatStatus, "A4")
	assert.NotContains(t, index.SeatStatus, "A11")
}

func TestBuildEmptySeatMap(t *testing.T) {
	t.Parallel()

	index := Build(entities.SeatMap{})

	assert.Equal(t, 0, index.TotalSeats)
	assert.Empty(t, index.SeatStatus)
}

func TestBuildTwiceYieldsIndependentIndexes(t *testing.T) {
	t.Parallel()
	seatMap := seatmap.Build(9, 16)

	first := Build(seatMap)
	second := Build(seatMap)
	require.True(t, Equal(first, second))

	first.SeatStatus["A1"] = entities.SeatState{Status: "held"}
	delete(first.SeatStatus, "A2")

	assert.Equal(t, constant.SEAT_STATUS_AVAILABLE, second.SeatStatus["A1"].Status)
	assert.Contains(t, second.SeatStatus, "A2")
	assert.Equal(t, first.TotalSeats, second.TotalSeats)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()
	held := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	booking := "bk-1"
	index := Build(seatmap.Build(8, 14))
	index.SeatStatus["B2"] = entities.SeatState{Status: "held", HoldStartedAt: &held, BookingId: &booking}

	clone := Clone(index)
	require.True(t, Equal(index, clone))

	*clone.SeatStatus["B2"].BookingId = "bk-2"
	clone.SeatStatus["A1"] = entities.SeatState{Status: "booked"}

	assert.Equal(t, "bk-1", *index.SeatStatus["B2"].BookingId)
	assert.Equal(t, constant.SEAT_STATUS_AVAILABLE, index.SeatStatus["A1"].Status)
	assert.False(t, Equal(index, clone))
}

func TestCacheBuildsOncePerRoom(t *testing.T) {
	t.Parallel()
	cache := NewCache()
	room := entities.Room{RoomId: "C1_room_1", SeatMap: seatmap.Build(8, 14)}

	first := cache.Get(room)
	room.SeatMap = entities.SeatMap{}
	second := cache.Get(room)

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, first.TotalSeats, second.TotalSeats)
	assert.True(t, Equal(first, second))
}

func TestCacheWarmMatchesDirectBuild(t *testing.T) {
	t.Parallel()
	// Arrange
	cache := NewCache()
	var rooms []entities.Room
	for i := 0; i < 12; i++ {
		rooms = append(rooms, entities.Room{
			RoomId:  "C1_room_" + strconv.Itoa(i+1),
			SeatMap: seatmap.Build(8+i%3, 12+i%7),
		})
	}
	rooms = append(rooms, rooms[0])

	// Act
	cache.Warm(rooms, 4)

	// Assert
	assert.Equal(t, 12, cache.Len())
	for _, room := range rooms {
		warmed := cache.Get(entities.Room{RoomId: room.RoomId})
		assert.True(t, Equal(Build(room.SeatMap), warmed), room.RoomId)
	}
}
