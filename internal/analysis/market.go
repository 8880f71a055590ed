package analysis

import (
	"time"
	_ "time/tzdata"
)

const (
	MarketName     = "NSE/BSE"
	MarketTimezone = "Asia/Kolkata"

	MarketOpen          = "Open 🟢"
	MarketClosedWeekend = "Closed (Weekend)"
	MarketClosedHours   = "Closed (Market Hours: 9:15 AM - 3:30 PM IST)"
)

var istLocation = loadIST()

func loadIST() *time.Location {
	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// IST returns the exchange time zone.
func IST() *time.Location { return istLocation }

// MarketStatus reports whether NSE/BSE is trading at now. Holidays are not modelled.
func MarketStatus(now time.Time) string {
	t := now.In(istLocation)
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return MarketClosedWeekend
	}
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 15, 0, 0, istLocation)
	closing := time.Date(t.Year(), t.Month(), t.Day(), 15, 30, 0, 0, istLocation)
	if !t.Before(open) && !t.After(closing) {
		return MarketOpen
	}
	return MarketClosedHours
}
