// Package calendar renders a room's events as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"

	"github.com/emersion/go-ical"
	"github.com/npezzotti/go-roomcal/internal/database"
)

const (
	ContentType = "text/calendar; charset=utf-8"

	productId        = "-//go-roomcal//EN"
	propCalendarName = "X-WR-CALNAME"
)

// Encode writes one VEVENT per event. Timestamps come from the events
// themselves so the same calendar always encodes to the same bytes.
func Encode(w io.Writer, room database.Room, events []database.Event) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productId)
	cal.Props.SetText(propCalendarName, room.Name)

	for _, e := range events {
		cal.Children = append(cal.Children, toICal(room, e))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}

	return nil
}

func toICal(room database.Room, e database.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, UID(e))
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, e.UpdatedAt.UTC())
	ve.Props.SetDateTime(ical.PropCreated, e.CreatedAt.UTC())
	ve.Props.SetDateTime(ical.PropLastModified, e.UpdatedAt.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
	ve.Props.SetText(ical.PropLocation, room.Name)

	if e.AuthorName != "" {
		ve.Props.SetText(ical.PropDescription, "Posted by "+e.AuthorName)
	}

	return ve
}

// UID is stable for the lifetime of the event so calendar clients update
// rather than duplicate it on refresh.
func UID(e database.Event) string {
	return e.Id.String() + "@roomcal"
}
