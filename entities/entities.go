package entities

import (
	"time"
)

// Record is anything a sink can persist. The id doubles as the storage key.
type Record interface {
	RecordId() string
}

type Room struct {
	RoomId                   string    `json:"_id"`
	CinemaId                 string    `json:"cinemaId"`
	RoomNumber               string    `json:"roomNumber"`
	Name                     string    `json:"name"`
	Type                     string    `json:"type"`
	Capacity                 int       `json:"capacity"`
	Status                   string    `json:"status"`
	Features                 []string  `json:"features"`
	SeatMap                  SeatMap   `json:"seatMap"`
	LastMaintenance          time.Time `json:"lastMaintenance"`
	NextMaintenanceScheduled time.Time `json:"nextMaintenanceScheduled"`
}

func (r Room) RecordId() string {
	return r.RoomId
}

type SeatState struct {
	Status        string     `json:"status"`
	HoldStartedAt *time.Time `json:"holdStartedAt"`
	BookingId     *string    `json:"bookingId"`
}

type SeatIndex struct {
	SeatStatus map[string]SeatState
	TotalSeats int
}

type ShowDateTime struct {
	Date string `json:"$date"`
}

type PricingTiers struct {
	Standard int `json:"standard"`
	Vip      int `json:"vip"`
	Couple   int `json:"couple"`
}

type Showtime struct {
	ShowtimeId      string               `json:"_id"`
	MovieId         string               `json:"movieId"`
	CinemaId        string               `json:"cinemaId"`
	RoomId          string               `json:"roomId"`
	ShowDateTime    ShowDateTime         `json:"showDateTime"`
	ScreenType      string               `json:"screenType"`
	PricingTiers    PricingTiers         `json:"pricingTiers"`
	TotalSeats      int                  `json:"totalSeats"`
	AvailableSeats  int                  `json:"availableSeats"`
	Status          string               `json:"status"`
	SeatStatus      map[string]SeatState `json:"seatStatus"`
	HasHoldingSeats bool                 `json:"hasHoldingSeats"`
}

func (s Showtime) RecordId() string {
	return s.ShowtimeId
}
