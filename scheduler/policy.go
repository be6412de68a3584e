package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/paologalligit/cinema-seeder/constant"
)

type ShowTime struct {
	Hour   int
	Minute int
}

func (s ShowTime) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// ParseShowTimes parses wall-clock slots written as "HH:MM".
func ParseShowTimes(values []string) ([]ShowTime, error) {
	slots := make([]ShowTime, 0, len(values))
	for _, v := range values {
		t, err := time.Parse("15:04", v)
		if err != nil {
			return nil, fmt.Errorf("invalid show time %q: %w", v, err)
		}
		slots = append(slots, ShowTime{Hour: t.Hour(), Minute: t.Minute()})
	}
	return slots, nil
}

type Policy struct {
	Days                     int
	CinemaActiveProbability  float64
	ShowTimes                []ShowTime
	MinShowsPerDay           int
	MaxShowsPerDay           int
	MaxMoviesPerCinemaPerDay int
	MinRoomUtilization       float64
	MaxRoomUtilization       float64
	TwoDProbability          float64
}

func DefaultPolicy() Policy {
	slots, _ := ParseShowTimes(constant.DefaultShowTimes)
	return Policy{
		Days:                     3,
		CinemaActiveProbability:  0.95,
		ShowTimes:                slots,
		MinShowsPerDay:           0,
		MaxShowsPerDay:           3,
		MaxMoviesPerCinemaPerDay: 5,
		MinRoomUtilization:       0.7,
		MaxRoomUtilization:       1.0,
		TwoDProbability:          0.7,
	}
}

func (p Policy) Validate() error {
	if p.Days < 0 {
		return fmt.Errorf("days must not be negative, got %d", p.Days)
	}
	if !isProbability(p.CinemaActiveProbability) {
		return fmt.Errorf("cinema active probability out of [0,1]: %v", p.CinemaActiveProbability)
	}
	if len(p.ShowTimes) == 0 {
		return errors.New("at least one show time is required")
	}
	if p.MinShowsPerDay < 0 || p.MinShowsPerDay > p.MaxShowsPerDay {
		return fmt.Errorf("invalid shows per day range [%d,%d]", p.MinShowsPerDay, p.MaxShowsPerDay)
	}
	if p.MaxMoviesPerCinemaPerDay < 1 {
		return fmt.Errorf("max movies per cinema per day must be positive, got %d", p.MaxMoviesPerCinemaPerDay)
	}
	if p.MinRoomUtilization < 0 || p.MinRoomUtilization > p.MaxRoomUtilization || p.MaxRoomUtilization > 1 {
		return fmt.Errorf("invalid room utilization range [%v,%v]", p.MinRoomUtilization, p.MaxRoomUtilization)
	}
	if !isProbability(p.TwoDProbability) {
		return fmt.Errorf("2D probability out of [0,1]: %v", p.TwoDProbability)
	}
	return nil
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}
