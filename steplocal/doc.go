// Package steplocal provides scope-bounded storage for cooperatively
// driven executions. A caller attaches a value to one execution, code
// running synchronously inside any of its steps reaches the value
// through a static cell, and on completion the value flows back to the
// caller together with the execution's own output. It is the
// step-driven analogue of task-local storage, built as a plain wrapper
// so cells compose with generics and ordinary package-level
// declarations.
package steplocal
