// Package wasihttp models HTTP exchanges as the narrow set of capabilities
// that a request transformer needs: an incoming request handle exposing its
// metadata, an ordered header field collection, consumable byte streams, and
// a response out-param that is set exactly once.
//
// The shapes follow the wasi:http incoming-handler world closely enough that
// a handler written against this package translates directly to a component
// binding, while the adapters in this package bind it to net/http.
package wasihttp

// Method is the closed enumeration of request methods.
type Method int

const (
	MethodGet Method = iota
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch
	MethodOther
)

var methodNames = [...]string{
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodConnect: "CONNECT",
	MethodOptions: "OPTIONS",
	MethodTrace:   "TRACE",
	MethodPatch:   "PATCH",
	MethodOther:   "OTHER",
}

// Name returns the canonical uppercase name of the method. Methods outside
// the closed enumeration print the stable label "OTHER".
func (m Method) Name() string {
	if m < 0 || int(m) >= len(methodNames) {
		return methodNames[MethodOther]
	}
	return methodNames[m]
}

func (m Method) String() string {
	return m.Name()
}

// ParseMethod maps a method name to its enumeration value; unrecognized
// names map to MethodOther.
func ParseMethod(name string) Method {
	for m, s := range methodNames {
		if Method(m) != MethodOther && s == name {
			return Method(m)
		}
	}
	return MethodOther
}
