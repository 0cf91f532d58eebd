// Package world provides the component store: the registry that owns every
// live component instance, keyed by node.ComponentID.
//
// Nodes only hold ids, so the tree can be copied or inspected independently
// of the store, and the store alone answers "does this instance exist".
// Callers choose create-or-update explicitly:
//
//	err := store.Insert(id, entry)                 // fails with ErrDuplicate if present
//	err = store.Insert(id, entry, world.Replace()) // overwrite
//	err = store.Update(id, entry)                  // fails with ErrNotFound if absent
//	store.Remove(id)                               // idempotent
//
// A Store is safe for concurrent use, but the recommended lifetime is one
// store per render or request, torn down with Reset.
package world
