package model

// RequestKind classifies a request submitted to the receptionist.
type RequestKind string

const (
	// TableRequest asks for a table or a place in the waiting room.
	TableRequest RequestKind = "table"
	// BillRequest settles the group's bill and releases its table.
	BillRequest RequestKind = "bill"
)

// Request is the message a group deposits into the request channel. Exactly
// one request is visible to the receptionist at a time.
type Request struct {
	Kind  RequestKind `json:"kind"`
	Group GroupID     `json:"group"`
}
