package seatindex

import (
	"maps"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
	"github.com/paologalligit/cinema-seeder/entities"
)

// Build flattens the seat map into a per-seat availability index. Corridor
// slots have no id and are left out.
func Build(seatMap entities.SeatMap) entities.SeatIndex {
	index := entities.SeatIndex{SeatStatus: map[string]entities.SeatState{}}
	for _, row := range seatMap.Rows {
		for _, seat := range row.Seats {
			if seat.IsCorridor() || seat.Id == "" {
				continue
			}
			index.SeatStatus[seat.Id] = entities.SeatState{Status: constant.SEAT_STATUS_AVAILABLE}
		}
	}
	index.TotalSeats = len(index.SeatStatus)
	return index
}

// Clone returns a deep copy: Equal(index, Clone(index)) holds and no map or
// pointer is shared between the two.
func Clone(index entities.SeatIndex) entities.SeatIndex {
	clone := entities.SeatIndex{
		SeatStatus: make(map[string]entities.SeatState, len(index.SeatStatus)),
		TotalSeats: index.TotalSeats,
	}
	for id, state := range index.SeatStatus {
		clone.SeatStatus[id] = cloneState(state)
	}
	return clone
}

func Equal(a, b entities.SeatIndex) bool {
	if a.TotalSeats != b.TotalSeats {
		return false
	}
	return maps.EqualFunc(a.SeatStatus, b.SeatStatus, stateEqual)
}

func cloneState(state entities.SeatState) entities.SeatState {
	if state.HoldStartedAt != nil {
		t := *state.HoldStartedAt
		state.HoldStartedAt = &t
	}
	if state.BookingId != nil {
		id := *state.BookingId
		state.BookingId = &id
	}
	return state
}

func stateEqual(a, b entities.SeatState) bool {
	if a.Status != b.Status {
		return false
	}
	if !ptrEqual(a.BookingId, b.BookingId, func(x, y string) bool { return x == y }) {
		return false
	}
	return ptrEqual(a.HoldStartedAt, b.HoldStartedAt, func(x, y time.Time) bool { return x.Equal(y) })
}

func ptrEqual[T any](a, b *T, eq func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return eq(*a, *b)
}
