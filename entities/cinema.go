package entities

type CinemaEntry struct {
	CinemaId  string `json:"_id"`
	RoomCount int    `json:"roomCount"`
}

type Movie struct {
	MovieId  string `json:"_id"`
	IsActive bool   `json:"isActive"`
}

type SeatKind string

const (
	SeatStandard SeatKind = "standard"
	SeatVip      SeatKind = "vip"
	SeatCouple   SeatKind = "couple"
	SeatCorridor SeatKind = "corridor"
)

// Seat is either sellable (Id set) or a corridor slot with no identity.
type Seat struct {
	Id   string   `json:"id,omitempty"`
	Type SeatKind `json:"type"`
}

func (s Seat) IsCorridor() bool {
	return s.Type == SeatCorridor
}

type SeatRow struct {
	Id    string `json:"id"`
	Seats []Seat `json:"seats"`
}

type SeatTypeInfo struct {
	BasePrice int    `json:"basePrice"`
	Color     string `json:"color"`
	Label     string `json:"label"`
}

type Screen struct {
	Label    string `json:"label"`
	Position string `json:"position"`
}

type SeatMapMetadata struct {
	TotalSeats         int                     `json:"totalSeats"`
	TotalSellableSeats int                     `json:"totalSellableSeats"`
	SeatTypes          map[string]SeatTypeInfo `json:"seatTypes"`
	Screen             Screen                  `json:"screen"`
}

type Platea []SeatRow

type SeatMap struct {
	Rows     Platea          `json:"rows"`
	Metadata SeatMapMetadata `json:"metadata"`
}

func (p *Platea) CountSeats() int {
	total := 0
	for _, seatRow := range *p {
		total += len(seatRow.Seats)
	}
	return total
}

func (p *Platea) CountSellableSeats() int {
	total := 0
	for _, seatRow := range *p {
		total += seatRow.countSellableSeats()
	}
	return total
}

func (s *SeatRow) countSellableSeats() int {
	total := 0
	for _, seat := range s.Seats {
		if !seat.IsCorridor() {
			total++
		}
	}
	return total
}
