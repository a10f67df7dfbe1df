package booking

import (
	"fmt"
	"strings"
	"time"

	"glowbook/models"
	"glowbook/utils"
)

const dayLayout = "2006-01-02"

// Overlaps reports whether the closed ranges [aStart, aEnd] and [bStart, bEnd]
// share at least one instant. Touching endpoints count as overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// stay is one requested service line with its normalized range.
type stay struct {
	ServiceID string
	Start     time.Time
	End       time.Time
	Days      int
}

// parseDay accepts YYYY-MM-DD or RFC3339 and returns midnight of that
// calendar day in loc.
func parseDay(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(dayLayout, raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// normalize pins check-in to CheckInHour and check-out to CheckOutHour. A
// same-day line runs from check-in until the end of that day.
func (s *DefaultBookingService) normalize(req models.ServiceRequest) (stay, error) {
	loc := s.location()
	in, err := parseDay(req.CheckIn, loc)
	if err != nil {
		return stay{}, utils.Validation(fmt.Sprintf("invalid checkIn date %q", req.CheckIn))
	}
	out, err := parseDay(req.CheckOut, loc)
	if err != nil {
		return stay{}, utils.Validation(fmt.Sprintf("invalid checkOut date %q", req.CheckOut))
	}
	days := daysBetween(in, out)
	if days < 0 {
		return stay{}, utils.Validation("checkOut must not be before checkIn")
	}

	start := time.Date(in.Year(), in.Month(), in.Day(), s.Settings.CheckInHour, 0, 0, 0, loc)
	end := time.Date(out.Year(), out.Month(), out.Day(), s.Settings.CheckOutHour, 0, 0, 0, loc)
	if days == 0 {
		end = time.Date(in.Year(), in.Month(), in.Day(), 23, 59, 59, 0, loc)
		days = 1
	}
	return stay{ServiceID: strings.TrimSpace(req.ServiceID), Start: start, End: end, Days: days}, nil
}

// LineTotal is the charge for one service line. Services are priced per
// booking, not per night.
func LineTotal(svc *models.Service) float64 {
	return utils.RoundMoney(svc.Price)
}

// BookingTotal sums the service lines and add-on amounts.
func BookingTotal(lines []models.BookedService, addOns []models.AdditionalItem) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.TPrice
	}
	total += AddOnTotal(addOns)
	return utils.RoundMoney(total)
}

// AddOnTotal sums add-on amounts. Quantity is informational.
func AddOnTotal(addOns []models.AdditionalItem) float64 {
	total := 0.0
	for _, a := range addOns {
		total += a.Amount
	}
	return utils.RoundMoney(total)
}

func validateAddOns(addOns []models.AdditionalItem) error {
	for _, a := range addOns {
		if strings.TrimSpace(a.Name) == "" {
			return utils.Validation("additional item name is required")
		}
		if a.Amount < 0 || a.Quantity < 0 {
			return utils.Validation("additional item amount and quantity must not be negative")
		}
	}
	return nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
