package repository

import "time"

// nowUTC keeps all persisted timestamps in UTC regardless of server locale.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
