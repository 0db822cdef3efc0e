package application

import "time"

// NowFunc supplies the current time. Services default to time.Now in UTC;
// tests substitute a fixed clock.
type NowFunc func() time.Time

func defaultNow() time.Time { return time.Now().UTC() }
