package dispatch

import (
	"math"
	"time"

	"masterlink/internal/models"
)

// Day keys as stored on master profiles, indexed by time.Weekday.
var dayKeys = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func DayKey(t time.Time) string {
	return dayKeys[int(t.Weekday())]
}

func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Availability is a master's declared weekly window.
type Availability struct {
	Days      []string
	StartMin  int
	EndMin    int
	HasWindow bool
}

func (a Availability) HasDay(key string) bool {
	for _, d := range a.Days {
		if d == key {
			return true
		}
	}
	return false
}

// IsScheduleCompatible reports whether the master's declared availability
// covers the request's desired day and time.
//
// "choose" requires the exact target day and minute to fall inside the
// declared window; a master with no declared days or window is incompatible.
// "today"/"tomorrow" check the day of week only, and a master with no
// declared days at all counts as available. Any other mode is compatible.
func IsScheduleCompatible(av Availability, req models.ServiceRequest, now time.Time) bool {
	switch req.ScheduleMode {
	case models.ScheduleChoose:
		if req.ScheduledAt == nil {
			return true
		}
		if len(av.Days) == 0 || !av.HasWindow {
			return false
		}
		if !av.HasDay(DayKey(*req.ScheduledAt)) {
			return false
		}
		minute := MinuteOfDay(*req.ScheduledAt)
		return minute >= av.StartMin && minute <= av.EndMin
	case models.ScheduleToday:
		if len(av.Days) == 0 {
			return true
		}
		return av.HasDay(DayKey(now))
	case models.ScheduleTomorrow:
		if len(av.Days) == 0 {
			return true
		}
		return av.HasDay(DayKey(now.AddDate(0, 0, 1)))
	}
	return true
}

// DistanceKm is the great-circle distance between two points in kilometers.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// distancePtr returns nil when either party has no shareable position.
func distancePtr(lat1, lon1, lat2, lon2 *float64) *float64 {
	if lat1 == nil || lon1 == nil || lat2 == nil || lon2 == nil {
		return nil
	}
	d := DistanceKm(*lat1, *lon1, *lat2, *lon2)
	return &d
}
