package utils

import (
	"log"
	"time"
)

// GetMarketTimeLocation returns the US equity market timezone.
func GetMarketTimeLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

func TimeNowET() time.Time {
	return time.Now().In(GetMarketTimeLocation())
}

// ScreenDate returns the calendar date (market timezone) a batch run is keyed to,
// formatted YYYY-MM-DD.
func ScreenDate(t time.Time) string {
	return t.In(GetMarketTimeLocation()).Format("2006-01-02")
}

// ScreenDateToday is ScreenDate for the current wall clock.
func ScreenDateToday() string {
	return ScreenDate(time.Now())
}

// DaysAgo returns the screen-date string n days before t.
func DaysAgo(t time.Time, n int) string {
	return ScreenDate(t.AddDate(0, 0, -n))
}
