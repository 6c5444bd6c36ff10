package timezone

import "time"

const DefaultTimezone = "Europe/Warsaw"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, then UTC when tzdata is missing.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Format renders t in tz, or "" for a nil time.
func Format(t *time.Time, tz string) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(Location(tz)).Format("2006-01-02 15:04")
}
