package webapi

import "github.com/chrisuehlinger/webref/webcore"

// IEventTarget is implemented by wrappers of objects that can receive events.
type IEventTarget interface {
	webcore.ReferenceType
	AsEventTarget() EventTarget
}

// EventTarget wraps an EventTarget.
//
// https://dom.spec.whatwg.org/#interface-eventtarget
type EventTarget struct {
	webcore.Reference
}

func wrapEventTarget(r webcore.Reference) EventTarget { return EventTarget{r} }

// AsEventTarget returns t viewed as an EventTarget. The view shares t's claim.
func (t EventTarget) AsEventTarget() EventTarget { return t }
