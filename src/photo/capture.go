package photo

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// CaptureDate is the calendar day a photo was taken. It is only used as a
// grouping key and is not validated against the calendar.
type CaptureDate struct {
	Year  int
	Month int
	Day   int
}

var captureDateRE = regexp.MustCompile(`(\d{4}):(\d{2}):(\d{2})`)

// ParseCaptureDate extracts the first YYYY:MM:DD group found in text.
func ParseCaptureDate(text string) (CaptureDate, bool) {
	m := captureDateRE.FindStringSubmatch(text)
	if m == nil {
		return CaptureDate{}, false
	}
	// The regexp guarantees digits, Atoi cannot fail.
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	d, _ := strconv.Atoi(m[3])
	return CaptureDate{Year: y, Month: mo, Day: d}, true
}

// String renders the date as YYYY-MM-DD.
func (d CaptureDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// SubfolderLayout names a bucket directory layout.
type SubfolderLayout string

const (
	LayoutNone      SubfolderLayout = "none"
	LayoutISO       SubfolderLayout = "yyyy-mm-dd"
	LayoutYYYYMMDD  SubfolderLayout = "yyyymmdd"
	LayoutYYMMDD    SubfolderLayout = "yymmdd"
	LayoutDDMMYY    SubfolderLayout = "ddmmyy"
	LayoutDDMM      SubfolderLayout = "ddmm"
	LayoutYYYYDDMMM SubfolderLayout = "yyyyddmmm"
	LayoutDDMMMYYYY SubfolderLayout = "ddmmmyyyy"
)

// Layouts lists every supported layout.
var Layouts = []SubfolderLayout{
	LayoutNone, LayoutISO, LayoutYYYYMMDD, LayoutYYMMDD, LayoutDDMMYY, LayoutDDMM, LayoutYYYYDDMMM, LayoutDDMMMYYYY,
}

// Format renders the bucket name for layout. LayoutNone yields "".
// Unknown layouts fall back to YYYY-MM-DD.
func (d CaptureDate) Format(layout SubfolderLayout) string {
	yy := fmt.Sprintf("%02d", d.Year%100)
	switch layout {
	case LayoutNone:
		return ""
	case LayoutYYYYMMDD:
		return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
	case LayoutYYMMDD:
		return fmt.Sprintf("%s%02d%02d", yy, d.Month, d.Day)
	case LayoutDDMMYY:
		return fmt.Sprintf("%02d%02d%s", d.Day, d.Month, yy)
	case LayoutDDMM:
		return fmt.Sprintf("%02d%02d", d.Day, d.Month)
	case LayoutYYYYDDMMM:
		return fmt.Sprintf("%04d%02d%s", d.Year, d.Day, d.monthAbbrev())
	case LayoutDDMMMYYYY:
		return fmt.Sprintf("%02d%s%04d", d.Day, d.monthAbbrev(), d.Year)
	default:
		return d.String()
	}
}

func (d CaptureDate) monthAbbrev() string {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Sprintf("%02d", d.Month)
	}
	return time.Month(d.Month).String()[:3]
}
