package vdom

import "strings"

// event creates an EventHandler with the given name and handler.
// The name is prefixed with "on" (e.g., "click" becomes "onclick").
func event(name string, handler any) EventHandler {
	return EventHandler{Event: "on" + name, Handler: handler}
}

// On handles an arbitrary event.
func On(name string, handler any) EventHandler { return event(name, handler) }

// IsEventProp reports whether a prop key names an event handler.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// EventName strips the "on" prefix from an event prop key.
func EventName(key string) string {
	return strings.TrimPrefix(key, "on")
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return event("click", handler) }

// OnInput handles input events (fired when value changes).
func OnInput(handler any) EventHandler { return event("input", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return event("keydown", handler) }
