package transfer

import (
	"bytes"
	"strings"
	"testing"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

func TestDecodeSnapshotNormalizes(t *testing.T) {
	raw := `{
		"tickets": [
			{"id": 4, "description": "legacy", "size": "M", "assigned": ["Alice"], "status": "To Do", "priority": "P1", "startDate": "2025-10-20"},
			{"id": 9, "description": "bad status", "size": "S", "status": "Blocked", "priority": "", "isFixedLength": false}
		],
		"people": [{"name": "Alice", "availability": [10, -4]}],
		"currentTicketId": 2
	}`
	snap, err := DecodeSnapshot(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if snap.CurrentTicketID != 10 {
		t.Fatalf("CurrentTicketID = %d", snap.CurrentTicketID)
	}
	if !snap.Tickets[0].FixedLength() || snap.Tickets[1].FixedLength() {
		t.Fatal("isFixedLength defaults not honored")
	}
	if snap.Tickets[1].Status != models.StatusToDo || snap.Tickets[1].Priority != models.P2 {
		t.Fatalf("ticket 9 = %+v", snap.Tickets[1])
	}
	if snap.Tickets[1].Assigned == nil {
		t.Fatal("assigned should be an empty list, not null")
	}
	av := snap.People[0].Availability
	if len(av) != models.HorizonWeeks || av[0] != 10 || av[1] != 0 || av[2] != models.DefaultWeeklyHours {
		t.Fatalf("availability = %v", av)
	}

	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `"isFixedLength": true`) {
		t.Fatal("absent isFixedLength should stay absent on export")
	}
	if _, err := DecodeSnapshot(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTicketsCSV(t *testing.T) {
	flexible := false
	custom := calendar.MustParse("2025-11-07")
	tickets := []models.Ticket{
		{
			ID: 1, UUID: "u-1", Description: "Build, then ship", Assigned: []string{"Alice", "Bob"},
			Status: models.StatusInProgress, Size: "XL", Priority: models.P1, IsFixedLength: &flexible,
			StartDate: calendar.MustParse("2025-10-20"), CustomEndDate: &custom,
		},
		{ID: 2, Description: "unassigned", Status: models.StatusToDo, Size: "S", Priority: models.P3, StartDate: calendar.MustParse("2025-10-20")},
	}
	var buf bytes.Buffer
	if err := WriteTicketsCSV(&buf, tickets, schedule.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv = %q", buf.String())
	}
	if !strings.Contains(lines[1], "2025-10-24") || !strings.Contains(lines[2], "N/A") {
		t.Fatalf("end dates missing: %q", lines)
	}

	got, err := ReadTicketsCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d tickets", len(got))
	}
	first := got[0]
	if first.Description != "Build, then ship" || len(first.Assigned) != 2 || first.FixedLength() || first.CustomEndDate.String() != "2025-11-07" {
		t.Fatalf("first = %+v", first)
	}
	if first.Status != models.StatusInProgress || first.Priority != models.P1 {
		t.Fatalf("first status/priority = %s/%s", first.Status, first.Priority)
	}
}

func TestReadTicketsCSVLegacyColumns(t *testing.T) {
	in := "Title,Size,Assigned,StartDate\nOld task,L,Alice,2025-10-20\n"
	got, err := ReadTicketsCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	tk := got[0]
	if tk.Description != "Old task" || tk.Size != "L" || !tk.FixedLength() || tk.Status != models.StatusToDo || tk.Priority != models.P2 {
		t.Fatalf("ticket = %+v", tk)
	}

	if _, err := ReadTicketsCSV(strings.NewReader("description,status\nx,Blocked\n")); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := ReadTicketsCSV(strings.NewReader("description,startDate\nx,20/10/2025\n")); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestReadTicketsCSVTaskType(t *testing.T) {
	in := "id,description,assigned,size,Task Type,startDate\n" +
		"1,flex,Alice,M,Flexible,2025-10-20\n" +
		"2,fixed,Alice,M,Fixed,2025-10-20\n" +
		"3,blank,Alice,M,,2025-10-20\n"
	got, err := ReadTicketsCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].FixedLength() || !got[1].FixedLength() || !got[2].FixedLength() {
		t.Fatalf("fixed = %v %v %v", got[0].FixedLength(), got[1].FixedLength(), got[2].FixedLength())
	}
	if got[2].IsFixedLength != nil {
		t.Fatal("empty task type should leave the mode unset")
	}

	both, err := ReadTicketsCSV(strings.NewReader("description,fixedLength,taskType\nx,Flexible,Fixed\ny,true,Flexible\n"))
	if err != nil {
		t.Fatal(err)
	}
	if both[0].FixedLength() || !both[1].FixedLength() {
		t.Fatal("fixedLength column should win over task type")
	}

	var buf bytes.Buffer
	if err := WriteTicketsCSV(&buf, got[:1], schedule.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ",false,Flexible,") {
		t.Fatalf("csv = %q", buf.String())
	}
	if _, err := ReadTicketsCSV(strings.NewReader("description,fixedLength\nx,sometimes\n")); err == nil {
		t.Fatal("expected error for unknown fixedLength")
	}
}

func TestPeopleCSV(t *testing.T) {
	people := []models.Person{{Name: "Alice", IsProjectReady: true, Availability: []float64{25, 0, 12.5, 25, 25, 25, 25, 25}}}
	var buf bytes.Buffer
	if err := WritePeopleCSV(&buf, people); err != nil {
		t.Fatal(err)
	}
	got, err := ReadPeopleCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].IsProjectReady || got[0].Availability[2] != 12.5 || got[0].Availability[1] != 0 {
		t.Fatalf("people = %+v", got)
	}

	partial, err := ReadPeopleCSV(strings.NewReader("name,week1\nBob,-5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if partial[0].Availability[0] != 0 || partial[0].Availability[1] != models.DefaultWeeklyHours {
		t.Fatalf("partial = %+v", partial[0])
	}
	if _, err := ReadPeopleCSV(strings.NewReader("who\nBob\n")); err == nil {
		t.Fatal("expected missing name column error")
	}
}
