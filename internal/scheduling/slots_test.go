package scheduling

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestAvailableSlotsEmptySchedule(t *testing.T) {
	got := AvailableSlots("doc-1", day(1), nil, testNow)
	if !reflect.DeepEqual(got, TimeSlots) {
		t.Fatalf("expected full slot list, got %v", got)
	}
}

func TestAvailableSlotsBlockingByStatus(t *testing.T) {
	cases := []struct {
		status AppointmentStatus
		blocks bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCancelled, false},
		{StatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			appts := []Appointment{{
				ID: "apt-x", DoctorID: "doc-1", Date: day(1), Time: "10:00 AM", Status: tc.status,
			}}
			got := AvailableSlots("doc-1", day(1), appts, testNow)
			present := containsSlot(got, "10:00 AM")
			if tc.blocks && present {
				t.Fatalf("status %s should block the slot", tc.status)
			}
			if !tc.blocks && !present {
				t.Fatalf("status %s should not block the slot", tc.status)
			}
		})
	}
}

func TestAvailableSlotsOtherDoctorDoesNotBlock(t *testing.T) {
	appts := []Appointment{{
		ID: "apt-x", DoctorID: "doc-2", Date: day(1), Time: "10:00 AM", Status: StatusConfirmed,
	}}
	got := AvailableSlots("doc-1", day(1), appts, testNow)
	if !containsSlot(got, "10:00 AM") {
		t.Fatal("another doctor's appointment must not block the slot")
	}
}

func TestAvailableSlotsTodayCutsPastSlots(t *testing.T) {
	// 11:10 AM on the requested day: only strictly later labels remain.
	now := time.Date(2026, 9, 10, 11, 10, 0, 0, time.UTC)
	got := AvailableSlots("doc-1", "2026-09-10", nil, now)

	want := []string{"11:30 AM", "01:00 PM", "01:30 PM", "02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	appts := []Appointment{{
		ID: "apt-x", DoctorID: "doc-1", Date: day(2), Time: "02:00 PM", Status: StatusPending,
	}}
	first := AvailableSlots("doc-1", day(2), appts, testNow)
	second := AvailableSlots("doc-1", day(2), appts, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different output: %v vs %v", first, second)
	}
}

func TestAvailableSlotsConfirmedTenAM(t *testing.T) {
	// Doctor doc-1 holds a confirmed 10:00 AM: the other 12 labels stay open.
	appts := []Appointment{{
		ID: "apt-1", DoctorID: "doc-1", Date: day(2), Time: "10:00 AM", Status: StatusConfirmed,
	}}
	got := AvailableSlots("doc-1", day(2), appts, testNow)

	if containsSlot(got, "10:00 AM") {
		t.Fatal("10:00 AM should be excluded")
	}
	if len(got) != len(TimeSlots)-1 {
		t.Fatalf("expected %d slots, got %d", len(TimeSlots)-1, len(got))
	}
	for _, slot := range TimeSlots {
		if slot == "10:00 AM" {
			continue
		}
		if !containsSlot(got, slot) {
			t.Fatalf("slot %s missing from result", slot)
		}
	}
}

func TestKnownSlot(t *testing.T) {
	if !KnownSlot("09:00 AM") || !KnownSlot("04:00 PM") {
		t.Fatal("grid labels must be known")
	}
	if KnownSlot("12:00 PM") {
		t.Fatal("midday gap label must not be known")
	}
	if KnownSlot("10:15 AM") {
		t.Fatal("off-grid label must not be known")
	}
}
