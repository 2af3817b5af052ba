package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukydev/vehicle-tracker/internal/models"
)

// dateLayout matches the tracker export timestamp, e.g. "03/Nov/2025 06:12:38".
const dateLayout = "02/Jan/2006 15:04:05"

// isoLayout is how parsed trip timestamps are stored. Duplicate
// detection compares dates by string equality, so every path must
// format through this layout.
const isoLayout = "2006-01-02T15:04:05"

// normalizeTimestamp repairs the export quirk where date and time are
// concatenated without a separator ("03/Nov/202506:12:38"): the first
// four characters after the month are the year, the remainder is a
// time-of-day whose colons may be missing. Values already in the
// separated form pass through unchanged.
func normalizeTimestamp(raw string) string {
	if !strings.Contains(raw, "/") || len(raw) <= 15 {
		return raw
	}
	parts := strings.Split(raw, "/")
	if len(parts) != 3 || len(parts[2]) < 4 {
		return raw
	}
	year := parts[2][:4]
	timePart := strings.TrimSpace(parts[2][4:])
	if timePart == "" {
		timePart = "00:00:00"
	} else if !strings.Contains(timePart, ":") {
		if len(timePart) >= 6 {
			timePart = timePart[:2] + ":" + timePart[2:4] + ":" + timePart[4:6]
		} else {
			timePart = "00:00:00"
		}
	}
	return parts[0] + "/" + parts[1] + "/" + year + " " + timePart
}

// ParseRow converts one raw CSV row into a tracking record candidate.
// Identity and metadata fields (id, uploader, upload time) are stamped
// later by the pipeline, only for records that survive deduplication.
func ParseRow(row map[string]string, format models.RecordType) (models.TrackingRecord, error) {
	ts, err := time.Parse(dateLayout, normalizeTimestamp(row["Date"]))
	if err != nil {
		return models.TrackingRecord{}, fmt.Errorf("parsing date %q: %w", row["Date"], err)
	}

	lat, err := parseCoordinate(row["Latitude"])
	if err != nil {
		return models.TrackingRecord{}, fmt.Errorf("parsing latitude %q: %w", row["Latitude"], err)
	}
	lon, err := parseCoordinate(row["Longitude"])
	if err != nil {
		return models.TrackingRecord{}, fmt.Errorf("parsing longitude %q: %w", row["Longitude"], err)
	}

	rec := models.TrackingRecord{
		RecordType: format,
		Date:       ts.Format(isoLayout),
		Address:    row["Address"],
		Latitude:   lat,
		Longitude:  lon,
	}

	if format == models.RecordTypeIButton {
		driver := CleanText(row["Driver"])
		if driver == unreadable {
			driver = "Driver"
		}
		rec.Driver = driver
		// The iButton value is a device identifier, not a display name,
		// so it is copied verbatim.
		rec.IButton = row["iButton"]
	} else {
		vehicle := CleanText(row["Vehicle"])
		if vehicle == unreadable {
			vehicle = "Vehicle"
		}
		rec.Vehicle = vehicle
	}

	return rec, nil
}

// parseCoordinate parses a latitude/longitude cell. A missing or blank
// cell defaults to 0; a non-empty unparseable value fails the row.
func parseCoordinate(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}
