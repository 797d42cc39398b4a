// Package xevent models the upstream X event source contract: a
// byte-oriented event source yielding opaque, variable-length event records
// with a leading response_type. The wire transport and opcode decoding
// themselves are out of scope here — this package only defines the
// decoded, tagged-union shape ingest dispatches on, and the two
// non-blocking pull operations a concrete transport must implement.
package xevent

// ResponseType identifies an event's kind. Values below 128 are the
// standard X core protocol event numbers; RandR events are reported with
// ResponseType = randrEventBase + subtype and must have the base
// subtracted before the kind switch.
type ResponseType uint8

// Standard X core event kinds this core understands.
const (
	KeyPress         ResponseType = 2
	KeyRelease       ResponseType = 3
	ButtonPress      ResponseType = 4
	ButtonRelease    ResponseType = 5
	MotionNotify     ResponseType = 6
	EnterNotify      ResponseType = 7
	LeaveNotify      ResponseType = 8
	FocusIn          ResponseType = 9
	FocusOut         ResponseType = 10
	Expose           ResponseType = 12
	DestroyNotify    ResponseType = 17
	UnmapNotify      ResponseType = 18
	MapRequest       ResponseType = 20
	ConfigureNotify  ResponseType = 22
	ConfigureRequest ResponseType = 23
	PropertyNotify   ResponseType = 28
	ColormapNotify   ResponseType = 32
	ClientMessage    ResponseType = 33
	MappingNotify    ResponseType = 34
)

// RandR subtypes, reported relative to a connection's negotiated
// randr_event_base.
type RandRSubtype uint8

const (
	RandRScreenChangeNotify RandRSubtype = 0
)

// Configure-request value-mask bits.
type ConfigMask uint16

const (
	ConfigX           ConfigMask = 1 << 0
	ConfigY           ConfigMask = 1 << 1
	ConfigWidth       ConfigMask = 1 << 2
	ConfigHeight      ConfigMask = 1 << 3
	ConfigBorderWidth ConfigMask = 1 << 4
	ConfigSibling     ConfigMask = 1 << 5
	ConfigStackMode   ConfigMask = 1 << 6

	// GeometryMask is the subset of bits routed to configure_requests.
	GeometryMask = ConfigX | ConfigY | ConfigWidth | ConfigHeight | ConfigBorderWidth
	// StackMask is the subset of bits routed to restack_requests.
	StackMask = ConfigStackMode | ConfigSibling
)

// Atom identifies an interned X property atom.
type Atom uint32

// Event is a tagged union over every event kind this core understands. A
// variant is decoded once at ingest and carried by value into its bucket;
// buckets never hold a pointer aliasing a generic wire header.
type Event struct {
	ResponseType ResponseType
	Malformed    bool // length shorter than expected for its kind

	// Populated for the event kinds that need them. Kept as a flat struct
	// rather than an interface-typed payload so bucket storage (maps/slices
	// of *Event) never needs a type switch to read a common field like
	// Window.
	Window      uint32 // the subject window for most kinds
	Event_      uint32 // the "event" (receiving) window, for pointer/motion
	Frame       uint32 // ConfigureNotify/DestroyNotify originating frame, if known
	Sibling     uint32
	Atom        Atom
	State       uint32 // PropertyNotify state (0=NewValue, 1=Deleted)
	Time        uint32
	X, Y        int16
	Width       uint16
	Height      uint16
	BorderWidth uint16
	StackMode   uint8
	ConfigMask  ConfigMask
	Colormap    uint32
	DetailCode  uint8 // FocusIn/Out detail, MappingNotify request
}

// Source is the non-blocking upstream event source contract. A concrete X
// transport implementation lives outside this module's scope; Source lets
// the ingest loop be tested against a stub.
type Source interface {
	// PollQueued returns an event already buffered by the transport, or
	// ok=false if none is pending. Never blocks, never touches the wire.
	PollQueued() (ev Event, ok bool)

	// PollWire performs one non-blocking read from the underlying socket
	// and returns an event if one became available. err is non-nil only
	// for a transient I/O glitch; it is never returned for "no data
	// available right now".
	PollWire() (ev Event, ok bool, err error)
}
