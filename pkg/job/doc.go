// Package job builds node results and reads them back.
//
// A node ends by returning a domain.Result built with Builder: either the
// data container it produced, or an envelope that also tells the scheduler
// which nodes or directions come next. Downstream nodes read those results
// through FetchInputs, which maps each Dependency to an input port and
// reports a Resolution per dependency so a missing upstream job never
// aborts the whole invocation.
package job
