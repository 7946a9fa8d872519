/*
Package ports defines the driven ports (interfaces) of the flojoy runtime.

These interfaces decouple node execution from where results live, so the same
nodes run against the in-process store or a store shared by several
scheduler workers.

# Key Interfaces

  - ResultStore: job results keyed by job id.
  - ScratchStore: tagged per-job scratch memory.
  - InitStore: init containers of nodes.
  - Locker: serializes read-modify-write updates on shared stores.

The Run*Contract functions are test suites every implementation must pass.
*/
package ports
