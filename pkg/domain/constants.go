package domain

// Instruction keys of a flow-control result, as read by the scheduler.
const (
	KeyFlowToNodes      = "FLOW_TO_NODES"
	KeyFlowToDirections = "FLOW_TO_DIRECTIONS"
	KeyResultField      = "RESULT_FIELD"
)

const (
	// DataField is the payload field of envelopes built by this package and
	// the fallback when an envelope names no result field.
	DataField = "data"

	// DefaultEdge is the output port read when a dependency names none.
	DefaultEdge = "default"
)
