package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"catalog-sync/core/errors"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// airDateLayout is the catalog's episode air date format, e.g. "December 2, 2013".
const airDateLayout = "January 2, 2006"

var episodeCode = regexp.MustCompile(`^S(\d+)E(\d+)$`)

// ParseCreated parses a catalog timestamp and keeps only its UTC calendar date.
func ParseCreated(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.NewValidationError("created", fmt.Sprintf("invalid timestamp %q", value))
	}
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseAirDate converts an air date to DateLayout.
func ParseAirDate(value string) (string, error) {
	ts, err := time.Parse(airDateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", errors.NewValidationError("air_date", fmt.Sprintf("invalid air date %q", value))
	}
	return ts.Format(DateLayout), nil
}

// SeasonName returns "Season N" for an episode code such as S01E07.
func SeasonName(code string) (string, bool) {
	m := episodeCode.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("Season %d", n), true
}
