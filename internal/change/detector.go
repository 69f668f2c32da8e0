package change

import (
	"fmt"

	"pheme/internal/normalize"
)

// Kind classifies one change event.
type Kind string

const (
	// KindTracking reports that an item entered the ledger.
	KindTracking Kind = "tracking"
	// KindDecrease reports a strict price drop.
	KindDecrease Kind = "decrease"
	// KindDiscount reports a side-channel discounted offer.
	KindDiscount Kind = "discount"
	// KindStatus reports a series progress change in either direction.
	KindStatus Kind = "status"
)

// Event is one detected change, carrying enough to render a plain-text
// message for the notification transport.
type Event struct {
	Kind     Kind
	Name     string
	Previous string
	Current  string
	// Discount is the raw discounted price string for KindDiscount events.
	Discount string
	// Noun names the progress unit for KindStatus events.
	Noun string
}

// Message renders the event as the plain text handed to notifiers.
func (e Event) Message() string {
	switch e.Kind {
	case KindDecrease:
		return fmt.Sprintf("The price of %s DECREASED from %s€ to %s€.", e.Name, e.Previous, e.Current)
	case KindDiscount:
		return fmt.Sprintf("%q is currently on discount! The discount price is %s.", e.Name, e.Discount)
	case KindStatus:
		return fmt.Sprintf("There is a new %s of %s! The status CHANGED from %s to %s.", e.Noun, e.Name, e.Previous, e.Current)
	case KindTracking:
		return fmt.Sprintf("Now tracking %s at %s.", e.Name, e.Current)
	default:
		return ""
	}
}

// Price classifies the delta between a fresh price observation and the
// ledger's prior row.
//
// A decrease fires only on a strict drop; equal or higher prices are
// silent. A discount fires whenever the side channel reports one,
// independent of the decrease comparison, so both may appear in one check.
// With no prior value there is nothing to compare: only the informational
// tracking event is produced.
func Price(name string, previous *float64, current float64, discount string) []Event {
	var events []Event
	if previous == nil {
		events = append(events, Event{
			Kind:    KindTracking,
			Name:    name,
			Current: normalize.FormatAmount(current) + "€",
		})
	} else if current < *previous {
		events = append(events, Event{
			Kind:     KindDecrease,
			Name:     name,
			Previous: normalize.FormatAmount(*previous),
			Current:  normalize.FormatAmount(current),
		})
	}
	if discount != "" {
		events = append(events, Event{
			Kind:     KindDiscount,
			Name:     name,
			Discount: discount,
		})
	}
	return events
}

// Status classifies the delta between a fresh status observation and the
// ledger's prior row. Any difference fires, forward or backward: episode
// numbering is not assumed monotonic.
func Status(name, noun string, previous *string, current string) []Event {
	if previous == nil {
		return []Event{{
			Kind:    KindTracking,
			Name:    name,
			Current: current,
		}}
	}
	if current == *previous {
		return nil
	}
	return []Event{{
		Kind:     KindStatus,
		Name:     name,
		Previous: *previous,
		Current:  current,
		Noun:     noun,
	}}
}
