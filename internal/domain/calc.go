package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// MaxStayNights bounds a single booking.
const MaxStayNights = 365

// Nights counts calendar days between checkIn and checkOut, floored at 1.
func Nights(checkIn, checkOut time.Time) int {
	n := dayNumber(checkOut) - dayNumber(checkIn)
	if n < 1 {
		return 1
	}
	return int(n)
}

// Overlaps reports whether [a1,a2) and [b1,b2) intersect.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// Stay is the part of a booking that counts toward facility load.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// End is the exclusive end of the occupied range. A same-day booking is billed
// as one night and occupies that night.
func (s Stay) End() time.Time {
	return StayEnd(s.CheckIn, s.CheckOut)
}

func StayEnd(checkIn, checkOut time.Time) time.Time {
	minEnd := checkIn.AddDate(0, 0, 1)
	if checkOut.Before(minEnd) {
		return minEnd
	}
	return checkOut
}

// dayNumber is the count of days since the Unix epoch for t's calendar date.
// Unix seconds do not saturate the way time.Duration does.
func dayNumber(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

type CapacityPolicy string

const (
	// PolicyStay sums guests of every booking overlapping any part of the stay.
	PolicyStay CapacityPolicy = "stay"
	// PolicyNightly takes the busiest single night within the stay.
	PolicyNightly CapacityPolicy = "nightly"
)

func ParseCapacityPolicy(s string) CapacityPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(PolicyNightly)) {
		return PolicyNightly
	}
	return PolicyStay
}

// Load returns the guest load already committed for [checkIn, checkOut).
func (p CapacityPolicy) Load(existing []Stay, checkIn, checkOut time.Time) int {
	end := StayEnd(checkIn, checkOut)
	if p == PolicyNightly {
		return nightlyPeak(existing, checkIn, end)
	}
	total := 0
	for _, s := range existing {
		if Overlaps(s.CheckIn, s.End(), checkIn, end) {
			total += s.Guests
		}
	}
	return total
}

// nightlyPeak sweeps the start and end boundaries of the stays clipped to
// [from, to). Ends sort before starts on the same day since ranges are half-open.
func nightlyPeak(existing []Stay, from, to time.Time) int {
	type edge struct {
		at    time.Time
		delta int
	}
	edges := make([]edge, 0, 2*len(existing))
	for _, s := range existing {
		start, end := s.CheckIn, s.End()
		if !Overlaps(start, end, from, to) {
			continue
		}
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		edges = append(edges, edge{start, s.Guests}, edge{end, -s.Guests})
	}
	sort.Slice(edges, func(i, k int) bool {
		if !edges[i].at.Equal(edges[k].at) {
			return edges[i].at.Before(edges[k].at)
		}
		return edges[i].delta < edges[k].delta
	})

	peak, load := 0, 0
	for _, e := range edges {
		load += e.delta
		if load > peak {
			peak = load
		}
	}
	return peak
}

// BookingTotal is nights × price rounded to cents.
func BookingTotal(nights int, pricePerNight float64) float64 {
	cents := math.Round(pricePerNight * 100)
	return math.Round(float64(nights)*cents) / 100
}
