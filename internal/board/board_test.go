package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
	"scheduler/internal/transfer"
)

var fixedNow = time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)

func newBoard(t *testing.T, people ...string) *Board {
	t.Helper()
	b := New(models.NewSnapshot(), func() time.Time { return fixedNow })
	for _, name := range people {
		if _, ok := b.AddPerson(name); !ok {
			t.Fatalf("AddPerson(%q) declined", name)
		}
	}
	return b
}

func mustAdd(t *testing.T, b *Board, in NewTicket) models.Ticket {
	t.Helper()
	tk, err := b.AddTicket(in)
	if err != nil {
		t.Fatalf("AddTicket: %v", err)
	}
	return tk
}

func TestAddPerson(t *testing.T) {
	b := newBoard(t, "Alice")
	alice, err := b.Person("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(alice.Availability, models.DefaultAvailability()) {
		t.Fatalf("availability = %v", alice.Availability)
	}
	if _, ok := b.AddPerson("Alice"); ok {
		t.Fatal("duplicate name must be declined")
	}
	if _, ok := b.AddPerson("   "); ok {
		t.Fatal("empty name must be declined")
	}
	if got := len(b.Snapshot().People); got != 1 {
		t.Fatalf("roster size = %d", got)
	}
}

func TestRemovePersonStripsAssignments(t *testing.T) {
	b := newBoard(t, "Alice", "Bob")
	tk := mustAdd(t, b, NewTicket{Description: "pair work", Assigned: []string{"Alice", "Bob"}})

	if !b.RemovePerson("Alice") {
		t.Fatal("RemovePerson returned false")
	}
	got, _ := b.Ticket(tk.ID)
	if !reflect.DeepEqual(got.Assigned, []string{"Bob"}) {
		t.Fatalf("assigned = %v", got.Assigned)
	}
	if _, err := b.Person("Alice"); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("Alice still present: %v", err)
	}
}

func TestRemovalIsIdempotent(t *testing.T) {
	b := newBoard(t, "Alice")
	mustAdd(t, b, NewTicket{Description: "one", Assigned: []string{"Alice"}})
	before, err := json.Marshal(b.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if b.RemoveTicket(999) || b.RemovePerson("Nobody") || b.RemoveStakeholder("x") || b.RemoveInitiative("y") {
		t.Fatal("removing unknown entries must report false")
	}
	after, _ := json.Marshal(b.Snapshot())
	if string(before) != string(after) {
		t.Fatalf("snapshot changed:\n%s\n%s", before, after)
	}
}

func TestSetAvailability(t *testing.T) {
	b := newBoard(t, "Alice")
	if err := b.SetAvailability("Alice", 2, 0); err != nil {
		t.Fatalf("zero hours (leave) should be accepted: %v", err)
	}
	var availErr *InvalidAvailabilityError
	if err := b.SetAvailability("Alice", 1, -3); !errors.As(err, &availErr) {
		t.Fatalf("expected InvalidAvailabilityError, got %v", err)
	}
	if err := b.SetAvailability("Alice", models.HorizonWeeks, 10); !errors.Is(err, ErrWeekOutOfRange) {
		t.Fatalf("expected ErrWeekOutOfRange, got %v", err)
	}
	if err := b.SetAvailability("Bob", 0, 10); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
	alice, _ := b.Person("Alice")
	if alice.Availability[1] != 25 || alice.Availability[2] != 0 {
		t.Fatalf("availability = %v", alice.Availability)
	}
	ready, err := b.ToggleProjectReady("Alice")
	if err != nil || !ready {
		t.Fatalf("toggle = %v, %v", ready, err)
	}
}

func TestRosterNamesAreTrimmed(t *testing.T) {
	b := newBoard(t, " Alice ", "Bob")
	tk := mustAdd(t, b, NewTicket{Description: "pair", Assigned: []string{"Alice", "Bob"}})

	if err := b.SetAvailability(" Alice ", 0, 5); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if ready, err := b.ToggleProjectReady("Alice "); err != nil || !ready {
		t.Fatalf("toggle = %v, %v", ready, err)
	}
	alice, err := b.Person(" Alice")
	if err != nil || alice.Name != "Alice" || alice.Availability[0] != 5 || !alice.IsProjectReady {
		t.Fatalf("alice = %+v, %v", alice, err)
	}
	if !b.RemovePerson(" Alice ") {
		t.Fatal("RemovePerson returned false")
	}
	got, _ := b.Ticket(tk.ID)
	if !reflect.DeepEqual(got.Assigned, []string{"Bob"}) {
		t.Fatalf("assigned = %v", got.Assigned)
	}
}

func TestAddTicketDefaults(t *testing.T) {
	b := newBoard(t, "Alice")
	first := mustAdd(t, b, NewTicket{Description: "write docs"})
	second := mustAdd(t, b, NewTicket{Description: "review", Size: "XL", Priority: "P1", Assigned: []string{"Alice"}})

	if first.ID != 1 || second.ID != 2 || b.Snapshot().CurrentTicketID != 3 {
		t.Fatalf("ids = %d, %d, next %d", first.ID, second.ID, b.Snapshot().CurrentTicketID)
	}
	if first.Status != models.StatusToDo || first.Size != "M" || first.Priority != models.P2 {
		t.Fatalf("defaults = %+v", first)
	}
	if first.StartDate.String() != "2025-10-20" || first.CreatedDate.String() != "2025-10-15" {
		t.Fatalf("dates = start %s created %s", first.StartDate, first.CreatedDate)
	}
	if !first.FixedLength() || first.CustomEndDate != nil || first.CompletedDate != nil {
		t.Fatalf("unexpected optional fields: %+v", first)
	}
	if first.UUID == "" || first.UUID == second.UUID {
		t.Fatalf("uuids = %q, %q", first.UUID, second.UUID)
	}
}

func TestAddTicketValidation(t *testing.T) {
	b := newBoard(t, "Alice")
	if _, err := b.AddTicket(NewTicket{Description: " "}); !errors.Is(err, ErrDescriptionMissing) {
		t.Fatalf("expected ErrDescriptionMissing, got %v", err)
	}
	var sizeErr *schedule.InvalidSizeError
	if _, err := b.AddTicket(NewTicket{Description: "x", Size: "XXXL"}); !errors.As(err, &sizeErr) {
		t.Fatalf("expected InvalidSizeError, got %v", err)
	}
	if _, err := b.AddTicket(NewTicket{Description: "x", Assigned: []string{"Zed"}}); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
	if _, err := b.AddTicket(NewTicket{Description: "x", Stakeholder: "Finance"}); !errors.Is(err, ErrStakeholderNotFound) {
		t.Fatalf("expected ErrStakeholderNotFound, got %v", err)
	}
	if len(b.Snapshot().Tickets) != 0 {
		t.Fatal("rejected tickets must not be stored")
	}
}

func TestUpdatesRecordHistory(t *testing.T) {
	b := newBoard(t, "Alice")
	tk := mustAdd(t, b, NewTicket{Description: "feature", Size: "M", Assigned: []string{"Alice"}, StartDate: calendar.MustParse("2025-10-20")})

	tk, err := b.UpdateSize(tk.ID, "L", "scope grew")
	if err != nil {
		t.Fatal(err)
	}
	if len(tk.SizeHistory) != 1 || tk.SizeHistory[0].OldValue != "M" || tk.SizeHistory[0].NewValue != "L" || tk.SizeHistory[0].Reason != "scope grew" {
		t.Fatalf("size history = %+v", tk.SizeHistory)
	}

	tk, err = b.UpdateStartDate(tk.ID, calendar.MustParse("2025-10-27"), "blocked")
	if err != nil {
		t.Fatal(err)
	}
	if len(tk.StartDateHistory) != 1 || tk.StartDateHistory[0].OldValue != "2025-10-20" {
		t.Fatalf("start history = %+v", tk.StartDateHistory)
	}

	end := calendar.MustParse("2025-11-07")
	tk, err = b.SetCustomEndDate(tk.ID, &end, "extension")
	if err != nil {
		t.Fatal(err)
	}
	if len(tk.EndDateHistory) != 1 || tk.EndDateHistory[0].OldValue != "2025-10-31" || tk.EndDateHistory[0].NewValue != "2025-11-07" {
		t.Fatalf("end history = %+v", tk.EndDateHistory)
	}
	if !tk.EndDateHistory[0].Timestamp.Equal(fixedNow) {
		t.Fatalf("timestamp = %v", tk.EndDateHistory[0].Timestamp)
	}

	tk, err = b.SetCustomEndDate(tk.ID, nil, "back on plan")
	if err != nil {
		t.Fatal(err)
	}
	if tk.CustomEndDate != nil || len(tk.EndDateHistory) != 2 {
		t.Fatalf("clearing custom end: %+v", tk)
	}

	if _, err := b.UpdateSize(tk.ID, "L", "same"); err != nil {
		t.Fatal(err)
	}
	tk, _ = b.Ticket(tk.ID)
	if len(tk.SizeHistory) != 1 {
		t.Fatal("unchanged size must not add history")
	}
}

func TestUnassignAll(t *testing.T) {
	b := newBoard(t, "Alice", "Bob")
	tk := mustAdd(t, b, NewTicket{Description: "x", Assigned: []string{"Alice", "Bob"}})
	tk, err := b.UpdateAssignment(tk.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tk.Assigned) != 0 {
		t.Fatalf("assigned = %v", tk.Assigned)
	}
	if _, err := b.UpdateAssignment(42, []string{"Alice"}); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestStatusCycle(t *testing.T) {
	b := newBoard(t, "Alice")
	tk := mustAdd(t, b, NewTicket{Description: "cycle"})

	steps := []struct {
		want          models.Status
		completedDate bool
	}{
		{models.StatusInProgress, false},
		{models.StatusPaused, false},
		{models.StatusDone, true},
		{models.StatusClosed, true},
		{models.StatusToDo, false},
	}
	for _, step := range steps {
		var err error
		tk, err = b.AdvanceStatus(tk.ID, "waiting on vendor")
		if err != nil {
			t.Fatal(err)
		}
		if tk.Status != step.want {
			t.Fatalf("status = %s, want %s", tk.Status, step.want)
		}
		if (tk.CompletedDate != nil) != step.completedDate {
			t.Fatalf("%s: completedDate = %v", tk.Status, tk.CompletedDate)
		}
	}
	if len(tk.PauseComments) != 1 || tk.PauseComments[0].PreviousStatus != models.StatusInProgress || tk.PauseComments[0].Comment != "waiting on vendor" {
		t.Fatalf("pause comments = %+v", tk.PauseComments)
	}
}

func TestSetStatusRejectsSkips(t *testing.T) {
	b := newBoard(t)
	tk := mustAdd(t, b, NewTicket{Description: "skip"})
	if _, err := b.SetStatus(tk.ID, models.StatusDone, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if got, err := b.SetStatus(tk.ID, models.StatusToDo, ""); err != nil || got.Status != models.StatusToDo {
		t.Fatalf("same status should be a no-op: %v", err)
	}
}

func TestCatalog(t *testing.T) {
	b := newBoard(t)
	if !b.AddStakeholder("Finance") || b.AddStakeholder("Finance") || b.AddStakeholder("") {
		t.Fatal("stakeholder add/decline mismatch")
	}
	if !b.AddInitiative("Q4 Launch", calendar.MustParse("2025-11-01"), "launch") || b.AddInitiative("Q4 Launch", calendar.Date{}, "") {
		t.Fatal("initiative add/decline mismatch")
	}
	tk := mustAdd(t, b, NewTicket{Description: "x", Stakeholder: "Finance", Initiative: "Q4 Launch"})
	b.RemoveStakeholder("Finance")
	b.RemoveInitiative("Q4 Launch")
	tk, _ = b.Ticket(tk.ID)
	if tk.Stakeholder != "" || tk.Initiative != "" {
		t.Fatalf("references not cleared: %+v", tk)
	}
}

func TestSettings(t *testing.T) {
	b := newBoard(t)
	if err := b.RegisterSize("XS", 0.5); err != nil {
		t.Fatal(err)
	}
	if err := b.RegisterSize("BAD", -1); err == nil {
		t.Fatal("expected error for negative size")
	}
	if err := b.SetDailyHourRate(6); err != nil {
		t.Fatal(err)
	}
	if err := b.SetDailyHourRate(0); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	cfg := b.Config()
	if cfg.Sizes["XS"] != 0.5 || cfg.Sizes["M"] != 2 || cfg.DailyHourRate != 6 {
		t.Fatalf("config = %+v", cfg)
	}
	if _, err := b.AddTicket(NewTicket{Description: "tiny", Size: "XS"}); err != nil {
		t.Fatalf("custom size should be usable: %v", err)
	}
}

func TestNewDoesNotAliasCallerSnapshot(t *testing.T) {
	snap := models.NewSnapshot()
	snap.People = []models.Person{{Name: "Alice", Availability: models.DefaultAvailability()}}
	snap.Tickets = []models.Ticket{{ID: 7, Description: "x", Assigned: []string{"Alice"}, Size: "S", Status: models.StatusToDo}}

	b := New(snap, nil)
	if b.Snapshot().CurrentTicketID != 8 {
		t.Fatalf("CurrentTicketID = %d", b.Snapshot().CurrentTicketID)
	}
	b.RemovePerson("Alice")
	if len(snap.People) != 1 || len(snap.Tickets[0].Assigned) != 1 {
		t.Fatal("board mutated the caller's snapshot")
	}
}

func TestImportTickets(t *testing.T) {
	b := newBoard(t, "Alice")
	existing := mustAdd(t, b, NewTicket{Description: "old", Assigned: []string{"Alice"}})

	replaced := existing
	replaced.Description = "replaced"
	res := b.ImportTickets([]models.Ticket{
		replaced,
		{ID: 0, Description: "fresh", Size: "S", Status: models.StatusToDo, Priority: models.P3},
		{ID: 42, Description: "foreign id", Size: "M", Status: models.StatusToDo, Priority: models.P2, Assigned: []string{"Zed"}},
	})
	if res != (ImportResult{Added: 2, Updated: 1}) {
		t.Fatalf("result = %+v", res)
	}
	snap := b.Snapshot()
	if len(snap.Tickets) != 3 || snap.Tickets[0].Description != "replaced" {
		t.Fatalf("tickets = %+v", snap.Tickets)
	}
	fresh, foreign := snap.Tickets[1], snap.Tickets[2]
	if fresh.ID != existing.ID+1 || foreign.ID != existing.ID+2 {
		t.Fatalf("ids = %d, %d", fresh.ID, foreign.ID)
	}
	if fresh.UUID == "" || fresh.Assigned == nil || fresh.CreatedDate.String() != "2025-10-15" {
		t.Fatalf("fresh = %+v", fresh)
	}
	if snap.CurrentTicketID != foreign.ID+1 {
		t.Fatalf("CurrentTicketID = %d", snap.CurrentTicketID)
	}
}

func TestImportTicketsCSVRoundTripKeepsAudit(t *testing.T) {
	now := fixedNow
	b := New(models.NewSnapshot(), func() time.Time { return now })
	b.AddPerson("Alice")
	tk := mustAdd(t, b, NewTicket{Description: "audited", Assigned: []string{"Alice"}})
	if _, err := b.UpdateSize(tk.ID, "L", "scope grew"); err != nil {
		t.Fatal(err)
	}
	for _, comment := range []string{"", "waiting on vendor"} {
		if _, err := b.AdvanceStatus(tk.ID, comment); err != nil {
			t.Fatal(err)
		}
	}
	before, _ := b.Ticket(tk.ID)
	now = fixedNow.AddDate(0, 0, 7)

	var buf bytes.Buffer
	if err := transfer.WriteTicketsCSV(&buf, b.Snapshot().Tickets, b.Config()); err != nil {
		t.Fatal(err)
	}
	rows, err := transfer.ReadTicketsCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if res := b.ImportTickets(rows); res != (ImportResult{Updated: 1}) {
		t.Fatalf("result = %+v", res)
	}
	after, _ := b.Ticket(tk.ID)
	if !reflect.DeepEqual(after, before) {
		t.Fatalf("unchanged round trip altered ticket:\n got %+v\nwant %+v", after, before)
	}

	rows[0].Size = "XL"
	rows[0].StartDate = calendar.MustParse("2025-10-27")
	b.ImportTickets(rows)
	after, _ = b.Ticket(tk.ID)
	if after.CreatedDate.String() != "2025-10-15" || after.UUID != before.UUID {
		t.Fatalf("identity lost: %+v", after)
	}
	if len(after.PauseComments) != 1 || after.PauseComments[0].Comment != "waiting on vendor" {
		t.Fatalf("pause comments = %+v", after.PauseComments)
	}
	if len(after.SizeHistory) != len(before.SizeHistory)+1 {
		t.Fatalf("size history = %+v", after.SizeHistory)
	}
	last := after.SizeHistory[len(after.SizeHistory)-1]
	if last.OldValue != "L" || last.NewValue != "XL" || last.Reason != "imported" || !last.Timestamp.Equal(now) {
		t.Fatalf("size change = %+v", last)
	}
	if len(after.StartDateHistory) != len(before.StartDateHistory)+1 || after.StartDate.String() != "2025-10-27" {
		t.Fatalf("start history = %+v", after.StartDateHistory)
	}
	if len(after.EndDateHistory) != len(before.EndDateHistory) {
		t.Fatalf("end history = %+v", after.EndDateHistory)
	}
}

func TestImportPeople(t *testing.T) {
	b := newBoard(t, "Alice")
	res := b.ImportPeople([]models.Person{
		{Name: "Alice", IsProjectReady: true, Availability: []float64{10}},
		{Name: "Bob"},
		{Name: ""},
	})
	if res != (ImportResult{Added: 1, Updated: 1}) {
		t.Fatalf("result = %+v", res)
	}
	alice, _ := b.Person("Alice")
	if !alice.IsProjectReady || alice.Availability[0] != 10 || alice.Availability[1] != models.DefaultWeeklyHours {
		t.Fatalf("alice = %+v", alice)
	}
	bob, err := b.Person("Bob")
	if err != nil || len(bob.Availability) != models.HorizonWeeks {
		t.Fatalf("bob = %+v, %v", bob, err)
	}
}
