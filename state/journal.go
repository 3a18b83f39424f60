// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package state

// Journal records undo actions for state modifications so a failed
// operation can be rolled back to a snapshot.
type Journal struct {
	entries   []func()
	snapshots map[int]int
	nextID    int
}

func NewJournal() *Journal {
	return &Journal{
		snapshots: make(map[int]int),
	}
}

// Append registers the undo action for a change that was just applied.
func (j *Journal) Append(undo func()) {
	if j == nil {
		return
	}
	j.entries = append(j.entries, undo)
}

// Snapshot returns an id that can later be passed to RevertToSnapshot.
func (j *Journal) Snapshot() int {
	id := j.nextID
	j.nextID++
	j.snapshots[id] = len(j.entries)
	return id
}

// RevertToSnapshot undoes every change recorded after the snapshot, newest first.
func (j *Journal) RevertToSnapshot(id int) {
	idx, ok := j.snapshots[id]
	if !ok {
		return
	}
	for i := len(j.entries) - 1; i >= idx; i-- {
		j.entries[i]()
	}
	j.entries = j.entries[:idx]

	for sid := range j.snapshots {
		if sid >= id {
			delete(j.snapshots, sid)
		}
	}
}

// Commit drops all undo actions, making the recorded changes final.
func (j *Journal) Commit() {
	j.entries = j.entries[:0]
	j.snapshots = make(map[int]int)
}

func (j *Journal) Length() int {
	return len(j.entries)
}

// Set writes m[key] and journals the previous entry.
func Set[K comparable, V any](j *Journal, m map[K]V, key K, value V) {
	prev, existed := m[key]
	m[key] = value
	j.Append(func() {
		if existed {
			m[key] = prev
		} else {
			delete(m, key)
		}
	})
}

// Delete removes m[key] and journals the removed entry.
func Delete[K comparable, V any](j *Journal, m map[K]V, key K) {
	prev, existed := m[key]
	if !existed {
		return
	}
	delete(m, key)
	j.Append(func() { m[key] = prev })
}

// Assign writes *field and journals its previous value.
func Assign[T any](j *Journal, field *T, value T) {
	prev := *field
	*field = value
	j.Append(func() { *field = prev })
}
