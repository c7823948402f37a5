package schedule

import (
	"errors"
	"testing"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
)

func ticket(size string, start string, fixed bool, assigned ...string) models.Ticket {
	return models.Ticket{
		ID:            1,
		Size:          size,
		Status:        models.StatusToDo,
		StartDate:     calendar.MustParse(start),
		IsFixedLength: &fixed,
		Assigned:      assigned,
	}
}

func TestProjectTaskDurationPolicies(t *testing.T) {
	cases := []struct {
		name      string
		ticket    models.Ticket
		wantDays  int
		wantEnd   string
		wantHours float64
	}{
		{"fixed XL two people", ticket("XL", "2025-10-20", true, "Vipul", "Peter"), 10, "2025-10-31", 50},
		{"flexible XL two people", ticket("XL", "2025-10-20", false, "Vipul", "Peter"), 5, "2025-10-24", 25},
		{"flexible XL four people", ticket("XL", "2025-10-20", false, "A", "B", "C", "D"), 3, "2025-10-22", 15},
		{"flexible S two people", ticket("S", "2025-10-20", false, "A", "B"), 1, "2025-10-20", 5},
		{"fixed M one person", ticket("M", "2025-10-20", true, "A"), 2, "2025-10-21", 10},
		{"M starting Friday", ticket("M", "2025-10-17", true, "A"), 2, "2025-10-20", 10},
		{"weekend start", ticket("S", "2025-10-18", true, "A"), 1, "2025-10-20", 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ProjectTask(tc.ticket, DefaultConfig())
			if err != nil {
				t.Fatalf("ProjectTask: %v", err)
			}
			if p.DurationBusinessDays != tc.wantDays {
				t.Fatalf("duration = %d, want %d", p.DurationBusinessDays, tc.wantDays)
			}
			if p.End.String() != tc.wantEnd {
				t.Fatalf("end = %s, want %s", p.End, tc.wantEnd)
			}
			for _, name := range tc.ticket.Assigned {
				if got := p.HoursFor(name); got != tc.wantHours {
					t.Fatalf("%s hours = %v, want %v", name, got, tc.wantHours)
				}
			}
			for _, d := range p.Days {
				if calendar.IsWeekend(d) {
					t.Fatalf("allocated weekend day %s", d)
				}
			}
		})
	}
}

func TestFixedLengthIgnoresTeamSize(t *testing.T) {
	sizes := DefaultSizes()
	for key, days := range sizes {
		team := []string{}
		for k := 1; k <= 5; k++ {
			team = append(team, string(rune('A'+k-1)))
			p, err := ProjectTask(ticket(key, "2025-10-20", true, team...), DefaultConfig())
			if err != nil {
				t.Fatalf("%s/%d: %v", key, k, err)
			}
			if p.DurationBusinessDays != int(days) {
				t.Fatalf("%s with %d people: duration %d, want %v", key, k, p.DurationBusinessDays, days)
			}
			if got := p.HoursFor("A"); got != days*DefaultDailyHourRate {
				t.Fatalf("%s with %d people: hours %v", key, k, got)
			}
		}
	}
}

func TestFlexibleDivision(t *testing.T) {
	for k := 1; k <= 6; k++ {
		team := make([]string, k)
		for i := range team {
			team[i] = string(rune('A' + i))
		}
		p, err := ProjectTask(ticket("XXL", "2025-10-20", false, team...), DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		want := (15 + k - 1) / k
		if p.DurationBusinessDays != want {
			t.Fatalf("k=%d duration %d, want %d", k, p.DurationBusinessDays, want)
		}
		if got := p.HoursFor(team[k-1]); got != float64(want)*DefaultDailyHourRate {
			t.Fatalf("k=%d hours %v", k, got)
		}
	}
}

func TestZeroAssigneesIsUnscheduled(t *testing.T) {
	tk := ticket("S", "2025-10-20", true)
	custom := calendar.MustParse("2025-11-01")
	tk.CustomEndDate = &custom
	p, err := ProjectTask(tk, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Unscheduled || len(p.Allocations) != 0 || p.EndLabel() != "N/A" {
		t.Fatalf("unexpected projection: %+v", p)
	}
}

func TestInvalidSize(t *testing.T) {
	_, err := ProjectTask(ticket("XXXL", "2025-10-20", true, "A"), DefaultConfig())
	var sizeErr *InvalidSizeError
	if !errors.As(err, &sizeErr) || sizeErr.Size != "XXXL" {
		t.Fatalf("expected InvalidSizeError, got %v", err)
	}
}

func TestMissingStartDate(t *testing.T) {
	tk := ticket("S", "2025-10-20", true, "A")
	tk.StartDate = calendar.Date{}
	if _, err := ProjectTask(tk, DefaultConfig()); !errors.Is(err, ErrMissingStartDate) {
		t.Fatalf("expected ErrMissingStartDate, got %v", err)
	}
}

func TestCustomEndDateOverridesDisplayOnly(t *testing.T) {
	tk := ticket("L", "2025-10-20", true, "A")
	custom := calendar.MustParse("2025-11-14")
	tk.CustomEndDate = &custom
	p, err := ProjectTask(tk, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !p.EffectiveEnd.Equal(custom) || p.End.String() != "2025-10-24" {
		t.Fatalf("end=%s effective=%s", p.End, p.EffectiveEnd)
	}
	if p.HoursFor("A") != 25 {
		t.Fatalf("override changed allocation: %v", p.HoursFor("A"))
	}
}

func TestLargeSizeTerminates(t *testing.T) {
	cfg := DefaultConfig()
	sizes, err := cfg.Sizes.With("EPIC", 100)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sizes = sizes
	p, err := ProjectTask(ticket("EPIC", "2025-10-20", true, "A"), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.DurationBusinessDays != 100 || p.End.String() != "2026-03-06" {
		t.Fatalf("duration=%d end=%s", p.DurationBusinessDays, p.End)
	}
}

func TestCustomSizeAndRate(t *testing.T) {
	cfg := Config{DailyHourRate: 8}
	sizes, err := DefaultSizes().With("HALF", 0.5)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sizes = sizes
	p, err := ProjectTask(ticket("HALF", "2025-10-20", true, "A"), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.DurationBusinessDays != 1 || p.HoursFor("A") != 8 {
		t.Fatalf("duration=%d hours=%v", p.DurationBusinessDays, p.HoursFor("A"))
	}
	if _, err := sizes.With("ZERO", 0); err == nil {
		t.Fatal("expected error registering zero-day size")
	}
	if _, ok := DefaultSizes()["HALF"]; ok {
		t.Fatal("With must not mutate the receiver")
	}
}

func TestProjectAllReportsErrorsPerTicket(t *testing.T) {
	good := ticket("S", "2025-10-20", true, "A")
	bad := ticket("NOPE", "2025-10-20", true, "A")
	bad.ID = 2
	empty := ticket("M", "2025-10-20", true)
	empty.ID = 3

	results := ProjectAll([]models.Ticket{good, bad, empty}, DefaultConfig())
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err != nil || results[0].Projection.TicketID != 1 {
		t.Fatalf("first result: %+v", results[0])
	}
	var sizeErr *InvalidSizeError
	if !errors.As(results[1].Err, &sizeErr) {
		t.Fatalf("second result should carry InvalidSizeError, got %v", results[1].Err)
	}
	if results[2].Err != nil || !results[2].Projection.Unscheduled {
		t.Fatalf("third result: %+v", results[2])
	}
}

func TestSizeKeysOrdered(t *testing.T) {
	got := DefaultSizes().Keys()
	want := []string{"S", "M", "L", "XL", "XXL"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v", got)
		}
	}
}
