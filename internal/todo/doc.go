// Package todo owns the task list and keeps it mirrored to a key-value slot.
//
// A TaskStore is built from a kv.Store with Open. It reads the slot once,
// then every mutating operation (Add, Complete, Delete, Update,
// ToggleCritical, Reorder) writes the full collection back to the same slot.
//
// The slot holds a JSON array of task records:
//
//	[
//	  {
//	    "text": "Pay rent",
//	    "dueDate": "2024-01-05",
//	    "critical": false,
//	    "status": "p",
//	    "index": 1
//	  }
//	]
//
// "index" is the task id and "status" is "p" (pending) or "c" (completed).
//
// # Loading
//
// An absent or empty slot, or one that does not parse as an array of task
// records, loads as an empty collection. Parseable records are always kept:
// missing fields take their zero values, unknown statuses become pending,
// and ids that repeat an earlier one (or are not positive) get fresh ids
// above the current maximum. Every repair is logged as a warning and reaches
// the slot with the next mutation. ValidateSlot reports the same problems
// against the embedded JSON Schema (see tasks.schema.json).
//
// # Ids
//
// Add assigns max(existing ids) + 1, or 1 when the list is empty. The rule
// only looks at the current collection, so a one-shot CLI command and a
// long-running TUI session hand out the same ids.
//
// # Views
//
// View filters by status and sorts by due date: ascending for pending tasks,
// descending for completed ones. Ties keep manual order. The manual order
// changes only through Reorder and is what gets persisted.
//
// # Errors
//
//   - *ValidationError: Add was given blank text or a due date that is not
//     YYYY-MM-DD. Nothing was added.
//   - *PersistError: the mutation was applied in memory but writing the slot
//     failed. The in-memory collection stays authoritative.
//
// Operations addressing an id that does not exist are no-ops and return nil.
package todo
