package ical

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/klokku/calgrid/pkg/dates"
	"github.com/klokku/calgrid/pkg/event"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

const ProductID = "-//klokku//calgrid//EN"

var (
	ErrInvalidCalendar = errors.New("invalid calendar")
	ErrEmptyCalendar   = errors.New("empty calendar")
)

const (
	utcLayout   = "20060102T150405Z"
	localLayout = "20060102T150405"
	dateLayout  = "20060102"
)

var frequencies = map[event.RecurrenceType]rrule.Frequency{
	event.Daily:   rrule.DAILY,
	event.Weekly:  rrule.WEEKLY,
	event.Monthly: rrule.MONTHLY,
	event.Yearly:  rrule.YEARLY,
}

// Export serializes events as a VCALENDAR. Timed events are interpreted in
// loc and written in UTC; all-day events use DATE values with an exclusive
// DTEND on the following day.
func Export(events []event.Event, loc *time.Location) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)

	for _, e := range events {
		day, err := dates.Parse(e.Date)
		if err != nil {
			return "", fmt.Errorf("event %s: %w", e.ID, err)
		}

		ve := cal.AddEvent(e.ID)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Category != "" {
			ve.SetProperty(ics.ComponentPropertyCategories, e.Category)
		}
		if e.Color != "" {
			ve.SetProperty(ics.ComponentPropertyColor, e.Color)
		}
		for _, attendee := range e.Attendees {
			ve.AddAttendee(attendee)
		}

		if e.IsAllDay {
			ve.SetAllDayStartAt(day)
			ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		} else {
			start, err := clockTime(e.Date, e.StartTime, loc)
			if err != nil {
				return "", fmt.Errorf("event %s: %w", e.ID, err)
			}
			end, err := clockTime(e.Date, e.EndTime, loc)
			if err != nil {
				return "", fmt.Errorf("event %s: %w", e.ID, err)
			}
			ve.SetStartAt(start)
			ve.SetEndAt(end)
		}

		if e.Recurrence != nil {
			rule, err := ruleString(*e.Recurrence)
			if err != nil {
				return "", fmt.Errorf("event %s: %w", e.ID, err)
			}
			ve.AddRrule(rule)
		}
	}

	return cal.Serialize(), nil
}

// Import reads VEVENTs from r. Events that cannot be represented (no UID, no
// start, zero length) are skipped and logged. Timed events ending on a later
// day are clipped at 23:59.
func Import(r io.Reader, loc *time.Location) ([]event.Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCalendar, err)
	}

	vevents := cal.Events()
	if len(vevents) == 0 {
		return nil, fmt.Errorf("%w: no VEVENT found", ErrEmptyCalendar)
	}

	events := make([]event.Event, 0, len(vevents))
	for _, ve := range vevents {
		e, err := parseVEvent(ve, loc)
		if err != nil {
			log.Warnf("skipping VEVENT: %v", err)
			continue
		}
		events = append(events, e)
	}
	log.Debugf("imported %d of %d events", len(events), len(vevents))
	return events, nil
}

func parseVEvent(ve *ics.VEvent, loc *time.Location) (event.Event, error) {
	var e event.Event

	uid := ve.GetProperty(ics.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return e, errors.New("missing UID")
	}
	e.ID = uid.Value
	e.Title = propertyValue(ve, ics.ComponentPropertySummary)
	e.Description = propertyValue(ve, ics.ComponentPropertyDescription)
	e.Location = propertyValue(ve, ics.ComponentPropertyLocation)
	e.Category = strings.ToLower(propertyValue(ve, ics.ComponentPropertyCategories))
	e.Color = propertyValue(ve, ics.ComponentPropertyColor)

	for _, p := range ve.GetProperties(ics.ComponentPropertyAttendee) {
		email := p.Value
		if len(email) > len("mailto:") && strings.EqualFold(email[:len("mailto:")], "mailto:") {
			email = email[len("mailto:"):]
		}
		if email != "" {
			e.Attendees = append(e.Attendees, email)
		}
	}

	dtStart := ve.GetProperty(ics.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return e, fmt.Errorf("%s: missing DTSTART", e.ID)
	}

	if isDateValue(dtStart) {
		day, err := time.Parse(dateLayout, dtStart.Value[:min(len(dtStart.Value), len(dateLayout))])
		if err != nil {
			return e, fmt.Errorf("%s: invalid DTSTART: %w", e.ID, err)
		}
		e.Date = dates.Format(day)
		e.IsAllDay = true
	} else {
		start, err := parseDateTime(dtStart, loc)
		if err != nil {
			return e, fmt.Errorf("%s: invalid DTSTART: %w", e.ID, err)
		}
		end := start.Add(time.Hour)
		if dtEnd := ve.GetProperty(ics.ComponentPropertyDtEnd); dtEnd != nil && dtEnd.Value != "" {
			end, err = parseDateTime(dtEnd, loc)
			if err != nil {
				return e, fmt.Errorf("%s: invalid DTEND: %w", e.ID, err)
			}
		}
		if !end.After(start) {
			return e, fmt.Errorf("%s: event ends before it starts", e.ID)
		}

		e.Date = start.Format("2006-01-02")
		e.StartTime = event.FormatClock(start.Hour(), start.Minute())
		if end.Format("2006-01-02") != e.Date {
			e.EndTime = "23:59"
		} else {
			e.EndTime = event.FormatClock(end.Hour(), end.Minute())
		}
		if e.StartTime == e.EndTime {
			return e, fmt.Errorf("%s: event has no duration on its start day", e.ID)
		}
	}

	if p := ve.GetProperty(ics.ComponentPropertyRrule); p != nil && p.Value != "" {
		rec, err := parseRule(p.Value)
		if err != nil {
			log.Warnf("%s: ignoring unsupported RRULE %q: %v", e.ID, p.Value, err)
		} else {
			e.Recurrence = rec
		}
	}

	return e, nil
}

func propertyValue(ve *ics.VEvent, property ics.ComponentProperty) string {
	if p := ve.GetProperty(property); p != nil {
		return p.Value
	}
	return ""
}

// isDateValue reports whether the property holds a DATE rather than a
// DATE-TIME, either by VALUE=DATE or by the absence of a time part.
func isDateValue(p *ics.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ics.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// parseDateTime handles UTC, TZID and floating values. Floating values are
// read in loc.
func parseDateTime(p *ics.IANAProperty, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(p.Value)
	if strings.HasSuffix(v, "Z") {
		t, err := time.Parse(utcLayout, v)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	}

	zone := loc
	if tzids, ok := p.ICalParameters[string(ics.ParameterTzid)]; ok && len(tzids) > 0 {
		if l, err := time.LoadLocation(tzids[0]); err == nil {
			zone = l
		} else {
			log.Debugf("unknown TZID %q, using display offset", tzids[0])
		}
	}
	t, err := time.ParseInLocation(localLayout, v, zone)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func clockTime(date, hhmm string, loc *time.Location) (time.Time, error) {
	day, err := dates.Parse(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := event.ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

func ruleString(r event.Recurrence) (string, error) {
	freq, ok := frequencies[r.Type]
	if !ok {
		return "", fmt.Errorf("unknown recurrence type %q", r.Type)
	}
	opt := rrule.ROption{Freq: freq, Interval: max(r.Interval, 1), Count: r.Count}
	if r.EndDate != "" {
		until, err := dates.Parse(r.EndDate)
		if err != nil {
			return "", err
		}
		opt.Until = until
	}
	return opt.RRuleString(), nil
}

func parseRule(value string) (*event.Recurrence, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return nil, err
	}
	rec := &event.Recurrence{Interval: max(opt.Interval, 1), Count: opt.Count}
	for t, f := range frequencies {
		if f == opt.Freq {
			rec.Type = t
		}
	}
	if rec.Type == "" {
		return nil, fmt.Errorf("frequency %v", opt.Freq)
	}
	if !opt.Until.IsZero() {
		rec.EndDate = dates.Format(opt.Until)
	}
	return rec, nil
}
