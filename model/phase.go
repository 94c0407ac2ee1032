package model

// GroupPhase represents the receptionist's private view of a group's
// progress. It is not shared with the group's own local tracking.
type GroupPhase string

const (
	GroupToArrive GroupPhase = "toArrive"
	GroupWaiting  GroupPhase = "waiting"
	GroupAtTable  GroupPhase = "atTable"
	GroupDone     GroupPhase = "done"
)

// ReceptionistPhase represents the receptionist state machine. The phase is
// persisted before every decision so external observers can audit the run.
type ReceptionistPhase string

const (
	PhaseAwaitingRequest  ReceptionistPhase = "awaitingRequest"
	PhaseAssigningTable   ReceptionistPhase = "assigningTable"
	PhaseReceivingPayment ReceptionistPhase = "receivingPayment"
)
