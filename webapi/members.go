package webapi

import "github.com/chrisuehlinger/webref/webcore"

// The helpers below read members whose JavaScript counterpart cannot throw
// on a well-formed receiver. A failure means the host broke its contract and
// panics with *webcore.InvariantError.

func getString(r webcore.Reference, name string) string {
	return webcore.Must(webcore.ToString(webcore.Must(r.Get(name))))
}

// getText reads a string member holding user-editable text. Unpaired
// surrogates are replaced by U+FFFD.
func getText(r webcore.Reference, name string) string {
	return webcore.Must(webcore.ToStringLossy(webcore.Must(r.Get(name))))
}

func getBool(r webcore.Reference, name string) bool {
	return webcore.Must(webcore.ToBool(webcore.Must(r.Get(name))))
}

func getUint32(r webcore.Reference, name string) uint32 {
	return webcore.Must(webcore.ToUint32(webcore.Must(r.Get(name))))
}

func getInt(r webcore.Reference, name string) int {
	return webcore.Must(webcore.ToInt(webcore.Must(r.Get(name))))
}

// getOptionalUint32 reads a member that is null when it does not apply.
func getOptionalUint32(r webcore.Reference, name string) (uint32, bool) {
	p := webcore.Must(webcore.Nullable(webcore.Must(r.Get(name)), webcore.ToUint32))
	if p == nil {
		return 0, false
	}
	return *p, true
}

// getNullable reads a member holding a wrapper or null. The caller owns the
// returned wrapper.
func getNullable[T webcore.ReferenceType](r webcore.Reference, name string, t *webcore.Type[T]) (T, bool) {
	var zero T
	p := webcore.Must(webcore.Nullable(webcore.Must(r.Get(name)), t.AssumeDecoder()))
	if p == nil {
		return zero, false
	}
	return *p, true
}

// setMember assigns a member that cannot throw. A string argument that is not
// valid UTF-8 panics.
func setMember(r webcore.Reference, name string, v webcore.Value) {
	webcore.Check(r.Set(name, v))
}
