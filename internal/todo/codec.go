package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serializes tasks in manual order. An empty collection encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode parses a slot value. Blank input and null decode to an empty
// collection. Missing fields take their zero values and records are not
// checked; see Repair.
func Decode(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse slot: %w", err)
	}
	if tasks == nil {
		return []Task{}, nil
	}
	return tasks, nil
}

// Repair returns a copy of tasks that upholds the collection invariants,
// plus one error per record it changed. Unknown statuses become pending.
// Ids that are not positive or repeat an earlier id get fresh ids above the
// current maximum, in list order.
func Repair(tasks []Task) ([]Task, []error) {
	out := make([]Task, len(tasks))
	copy(out, tasks)

	next := maxID(out) + 1
	seen := make(map[int]bool, len(out))
	var fixes []error
	for i := range out {
		t := &out[i]
		if t.Status != StatusPending && t.Status != StatusCompleted {
			fixes = append(fixes, &ValidationError{
				Path: fmt.Sprintf("[%d].status", i),
				Err:  fmt.Errorf("unknown status %q, set to pending", t.Status),
			})
			t.Status = StatusPending
		}
		if t.ID < 1 || seen[t.ID] {
			fixes = append(fixes, &ValidationError{
				Path: fmt.Sprintf("[%d].index", i),
				Err:  fmt.Errorf("id %d is invalid or repeated, reassigned to %d", t.ID, next),
			})
			t.ID = next
			next++
		}
		seen[t.ID] = true
	}
	return out, fixes
}

// duplicateIDs reports every record whose id repeats an earlier one.
func duplicateIDs(tasks []Task) []error {
	var errs []error
	seen := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			errs = append(errs, &ValidationError{
				Path: fmt.Sprintf("[%d].index", i),
				Err:  fmt.Errorf("duplicate id %d", t.ID),
			})
		}
		seen[t.ID] = true
	}
	return errs
}

func maxID(tasks []Task) int {
	m := 0
	for _, t := range tasks {
		if t.ID > m {
			m = t.ID
		}
	}
	return m
}
