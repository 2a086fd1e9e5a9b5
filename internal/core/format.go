package core

import (
	"fmt"
	"strings"
)

// FormatEntry renders an entry as the expression that produced it, e.g. `greeter.Greet("ann", loud=true)`.
func FormatEntry(entry *EventEntry) string {
	if entry == nil {
		return "<nil>"
	}

	name := "<unknown>"
	if entry.Mock != nil {
		name = entry.Mock.Name
	}

	text := FormatEvent(name, entry.Event)

	if entry.Mock != nil && entry.Mock.Async && entry.Kind != EntryPlain {
		text = "await " + text
	}

	if entry.Entered != nil {
		text += fmt.Sprintf(" [entered=%t]", *entry.Entered)
	}

	return text
}

// FormatEvent renders an event made against the mock called name.
func FormatEvent(name string, event Event) string {
	switch e := event.(type) {
	case CallEvent:
		parts := make([]string, 0, len(e.Args)+len(e.Kwargs))

		for _, arg := range e.Args {
			parts = append(parts, formatValue(arg))
		}

		for _, key := range kwargNames(e.Kwargs) {
			parts = append(parts, key+"="+formatValue(e.Kwargs[key]))
		}

		return name + "(" + strings.Join(parts, ", ") + ")"
	case AttributeEvent:
		switch e.Kind {
		case AccessSet:
			return fmt.Sprintf("%s.%s = %s", name, e.Property, formatValue(e.Value))
		case AccessDelete:
			return fmt.Sprintf("del %s.%s", name, e.Property)
		default:
			return name + "." + e.Property
		}
	default:
		return fmt.Sprintf("%s<%T>", name, event)
	}
}

func formatValue(value any) string {
	if stringer, ok := value.(fmt.Stringer); ok {
		return stringer.String()
	}

	return fmt.Sprintf("%#v", value)
}
