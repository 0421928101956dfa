package bson

import "time"

// DateTime is a BSON UTC datetime (wire tag 0x09): an instant stored as
// milliseconds since the Unix epoch.
//
// Go's time.Time always carries a *Location, so there is no direct
// equivalent of a "naive" (zone-less) timestamp to return when the caller
// decodes with tzAware=false. This implementation decodes to time.UTC in
// both cases; tzAware only changes whether the caller is told the value is
// authoritatively UTC (tzAware=true) or merely "UTC-shaped, zone unknown"
// (tzAware=false) via the IsZoneAware flag on the decoded DateTime. This is
// a deliberate host-mapping simplification, not one of spec.md's named open
// questions — see DESIGN.md.
type DateTime struct {
	Time        time.Time
	IsZoneAware bool
}

// NewDateTime returns a DateTime for t, truncated to millisecond precision
// the way the wire format stores it.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Millisecond), IsZoneAware: true}
}

// UnixMillis returns the number of milliseconds since the Unix epoch that
// this DateTime encodes as, converting to UTC first if the instant carries
// a non-UTC zone.
func (d DateTime) UnixMillis() int64 {
	t := d.Time
	if t.Location() != time.UTC {
		t = t.UTC()
	}
	return t.Unix()*1000 + int64(t.Nanosecond())/int64(time.Millisecond)
}

// dateTimeFromMillis rebuilds the instant a wire DateTime encoded.
func dateTimeFromMillis(ms int64, tzAware bool) DateTime {
	sec := ms / 1000
	nsec := (ms % 1000) * int64(time.Millisecond)
	if ms < 0 && nsec != 0 {
		// Go's integer division truncates toward zero; correct the
		// remainder so negative instants (pre-1970) land on the right
		// millisecond instead of rounding toward positive infinity.
		sec--
		nsec += int64(time.Second)
	}
	t := time.Unix(sec, nsec).UTC()
	return DateTime{Time: t, IsZoneAware: tzAware}
}
