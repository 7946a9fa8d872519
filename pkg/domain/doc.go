/*
Package domain holds the shapes shared by every flojoy component.

It defines what a job result looks like once a node has run, the reserved
instruction keys a scheduler reads to decide where the flow goes next, the
tagged entries of the scratch memory and the init containers of nodes. It has
no I/O and no knowledge of where results are stored.

# Key Entities

  - Result: the value posted under a job id, either a *container.DataContainer
    or an *Envelope.
  - Envelope: a flow-control result carrying instructions plus payload fields.
  - ScratchEntry: a tagged value kept in the per-job scratch memory.
  - InitContainer: the value produced by a node's init function.
*/
package domain
