package scheduling

import "time"

// TimeSlots is the fixed slot grid shared by every doctor: half-hour labels
// from 09:00 to 16:00 with a midday gap.
var TimeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"01:00 PM", "01:30 PM", "02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM",
	"04:00 PM",
}

const (
	dateLayout = "2006-01-02"
	slotLayout = "03:04 PM"
)

// AvailableSlots returns the bookable slot labels for a doctor on a given day,
// in grid order. A slot is taken while an appointment holding it is Pending or
// Confirmed; cancelled and completed appointments release their slot. When
// date is the current day, slots at or before now are also removed.
//
// Pure function of its inputs: callers inject the clock.
func AvailableSlots(doctorID, date string, appointments []Appointment, now time.Time) []string {
	taken := make(map[string]bool)
	for _, apt := range appointments {
		if apt.DoctorID != doctorID || apt.Date != date {
			continue
		}
		if apt.Status == StatusPending || apt.Status == StatusConfirmed {
			taken[apt.Time] = true
		}
	}

	today := date == now.Format(dateLayout)

	open := make([]string, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		if taken[slot] {
			continue
		}
		if today && !slotAfter(slot, now) {
			continue
		}
		open = append(open, slot)
	}
	return open
}

// slotAfter reports whether the slot's time of day is strictly after now.
func slotAfter(slot string, now time.Time) bool {
	t, err := time.Parse(slotLayout, slot)
	if err != nil {
		return false
	}
	slotAt := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	return slotAt.After(now)
}

// KnownSlot reports whether label is one of the fixed grid labels.
func KnownSlot(label string) bool {
	for _, s := range TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}
