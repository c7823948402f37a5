package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"scheduler/internal/calendar"
	"scheduler/internal/models"
	"scheduler/internal/schedule"
)

// TicketColumns is the header written by WriteTicketsCSV.
var TicketColumns = []string{
	"id", "uuid", "description", "assigned", "status", "size", "priority",
	"fixedLength", "taskType", "startDate", "endDate", "customEndDate", "completedDate",
	"stakeholder", "initiative",
}

const assigneeSeparator = ";"

// WriteTicketsCSV exports tickets with their computed end date. Tickets
// that cannot be projected get an empty end date, unscheduled ones "N/A".
func WriteTicketsCSV(w io.Writer, tickets []models.Ticket, cfg schedule.Config) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TicketColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range tickets {
		end := ""
		if p, err := schedule.ProjectTask(t, cfg); err == nil {
			end = p.EndLabel()
			if !p.Unscheduled {
				end = p.End.String()
			}
		}
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.UUID,
			t.Description,
			strings.Join(t.Assigned, assigneeSeparator),
			string(t.Status),
			t.Size,
			string(t.Priority),
			strconv.FormatBool(t.FixedLength()),
			taskType(t.FixedLength()),
			t.StartDate.String(),
			end,
			dateString(t.CustomEndDate),
			dateString(t.CompletedDate),
			t.Stakeholder,
			t.Initiative,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write ticket %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTicketsCSV parses a sheet written by WriteTicketsCSV or by hand.
// Columns are matched by header name, case-insensitively, and may be in
// any order; "title" is accepted for "description". The length mode comes
// from fixedLength (true/false or Fixed/Flexible) or, failing that, from a
// "Task Type" column where anything but Flexible is fixed. A ticket with
// neither stays fixed-length. The computed endDate
// column is ignored. Rows with an id of 0 or no id column get id 0 and are
// expected to be renumbered by the caller.
func ReadTicketsCSV(r io.Reader) ([]models.Ticket, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []models.Ticket{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	alias(cols, "description", "title")
	alias(cols, "tasktype", "task type")

	tickets := []models.Ticket{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t, err := ticketFromRecord(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func ticketFromRecord(rec []string, cols map[string]int) (models.Ticket, error) {
	get := func(name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	t := models.Ticket{
		UUID:        get("uuid"),
		Description: get("description"),
		Size:        get("size"),
		Stakeholder: get("stakeholder"),
		Initiative:  get("initiative"),
		Assigned:    []string{},
	}
	if t.Size == "" {
		t.Size = schedule.DefaultSize
	}
	if raw := get("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.Ticket{}, fmt.Errorf("id %q: %w", raw, err)
		}
		t.ID = id
	}
	for _, name := range strings.Split(get("assigned"), assigneeSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			t.Assigned = append(t.Assigned, name)
		}
	}

	var err error
	t.Status = models.StatusToDo
	if raw := get("status"); raw != "" {
		if t.Status, err = models.ParseStatus(raw); err != nil {
			return models.Ticket{}, err
		}
	}
	if t.Priority, err = models.ParsePriority(get("priority")); err != nil {
		return models.Ticket{}, err
	}
	if raw := get("fixedLength"); raw != "" {
		fixed, err := parseFixedLength(raw)
		if err != nil {
			return models.Ticket{}, err
		}
		t.IsFixedLength = &fixed
	} else if raw := get("taskType"); raw != "" {
		fixed := !strings.EqualFold(raw, "flexible")
		t.IsFixedLength = &fixed
	}
	if t.StartDate, err = calendar.Parse(get("startDate")); err != nil {
		return models.Ticket{}, err
	}
	if t.CustomEndDate, err = optionalDate(get("customEndDate")); err != nil {
		return models.Ticket{}, err
	}
	if t.CompletedDate, err = optionalDate(get("completedDate")); err != nil {
		return models.Ticket{}, err
	}
	return t, nil
}

func alias(cols map[string]int, name, alt string) {
	if _, ok := cols[name]; ok {
		return
	}
	if i, ok := cols[alt]; ok {
		cols[name] = i
	}
}

func taskType(fixed bool) string {
	if fixed {
		return "Fixed"
	}
	return "Flexible"
}

func parseFixedLength(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "fixed":
		return true, nil
	case "flexible":
		return false, nil
	}
	fixed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("fixedLength %q: %w", raw, err)
	}
	return fixed, nil
}

// PeopleColumns is the header written by WritePeopleCSV.
func PeopleColumns() []string {
	cols := []string{"name", "projectReady"}
	for w := 1; w <= models.HorizonWeeks; w++ {
		cols = append(cols, "week"+strconv.Itoa(w))
	}
	return cols
}

// WritePeopleCSV exports the roster with one column per week of availability.
func WritePeopleCSV(w io.Writer, people []models.Person) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PeopleColumns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range people {
		record := []string{p.Name, strconv.FormatBool(p.IsProjectReady)}
		for w := 0; w < models.HorizonWeeks; w++ {
			record = append(record, strconv.FormatFloat(p.HoursForWeek(w), 'f', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write person %s: %w", p.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPeopleCSV parses a roster sheet. Missing week columns default to
// models.DefaultWeeklyHours; negative hours clamp to zero.
func ReadPeopleCSV(r io.Reader) ([]models.Person, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []models.Person{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	nameCol, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("missing name column")
	}

	people := []models.Person{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if nameCol >= len(rec) || strings.TrimSpace(rec[nameCol]) == "" {
			continue
		}
		p := models.Person{Name: strings.TrimSpace(rec[nameCol]), Availability: models.DefaultAvailability()}
		if i, ok := cols["projectready"]; ok && i < len(rec) && rec[i] != "" {
			if p.IsProjectReady, err = strconv.ParseBool(strings.TrimSpace(rec[i])); err != nil {
				return nil, fmt.Errorf("line %d: projectReady: %w", line, err)
			}
		}
		for w := 0; w < models.HorizonWeeks; w++ {
			i, ok := cols["week"+strconv.Itoa(w+1)]
			if !ok || i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
				continue
			}
			hours, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: week %d: %w", line, w+1, err)
			}
			if hours < 0 {
				hours = 0
			}
			p.Availability[w] = hours
		}
		people = append(people, p)
	}
	return people, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func optionalDate(s string) (*calendar.Date, error) {
	d, err := calendar.Parse(s)
	if err != nil {
		return nil, err
	}
	return d.Ptr(), nil
}

func dateString(d *calendar.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
