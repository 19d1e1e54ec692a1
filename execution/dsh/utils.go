// Package dsh implements the DeathStar Hotel benchmark family.
package dsh

import (
	"fmt"

	"github.com/delftdata/Gaia/execution"
)

const (
	// MaxStay bounds the number of nights in a reservation.
	MaxStay = 14
	// RecommendationReadSize is the number of hotels read by the search and
	// recommendation transactions.
	RecommendationReadSize = 10

	MaxHotelPrice    = 10000.0
	MinHotelCapacity = 10
	MaxHotelCapacity = 500

	usernameLength = 20
	passwordMax    = 60
	custNameMax    = 55
	dateLength     = 10
)

// Dist is the squared Euclidean distance between two coordinates.
func Dist(x1, y1, x2, y2 float64) float64 {
	return (x1-x2)*(x1-x2) + (y1-y2)*(y1-y2)
}

// FormatDate renders a date as dd-mm-yyyy.
func FormatDate(d, m, y int) string {
	return fmt.Sprintf("%02d-%02d-%d", d, m, y)
}

// FormatUname renders a user id string into the fixed 20-character username
// format: a two-digit length prefix, underscore padding, then the id.
func FormatUname(uname string) string {
	l := len(uname)
	if l > 18 {
		panic(fmt.Sprintf("invalid username, must be <=18 characters long: %s", uname))
	}
	pad := make([]byte, 18-l)
	for i := range pad {
		pad[i] = '_'
	}
	return fmt.Sprintf("%02d%s%s", l, pad, uname)
}

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func parseDate(s string) (d, m, y int) {
	fmt.Sscanf(s, "%02d-%02d-%04d", &d, &m, &y)
	return
}

// DateInterp expands [inDate, outDate) into one dd-mm-yyyy cell per night.
// Every year is treated as non-leap; an empty range yields no cells.
func DateInterp(inDate, outDate string) []*execution.FixedTextScalar {
	d1, m1, y1 := parseDate(inDate)
	d2, m2, y2 := parseDate(outDate)
	if !(y1 < y2 || (y1 == y2 && (m1 < m2 || (m1 == m2 && d1 < d2)))) {
		return nil
	}
	var dates []*execution.FixedTextScalar
	for d1 != d2 || m1 != m2 || y1 != y2 {
		dates = append(dates, execution.NewFixedTextScalar(dateLength, FormatDate(d1, m1, y1)))
		d1++
		if d1 > daysInMonth[m1-1] {
			d1 = 1
			m1++
			if m1 > 12 {
				m1 = 1
				y1++
			}
		}
	}
	// The end of the stay is checkout day and takes no room night.
	return dates
}
