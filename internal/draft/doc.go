// Package draft provides the shared, persisted store for an in-progress
// agent configuration.
//
// # Overview
//
// The agent-creation wizard spans four steps, and every step reads and
// writes the same aggregate: the Draft. The Draft holds everything the
// wizard collects (name, sector, establishment info, telephony, opening
// hours, closures, options, integrations, documents, notes) and is the
// source of truth between steps — the remote agent record only stores name
// and status until publish.
//
// # Merge semantics
//
// Updates are typed Patches, not free-form maps. A patch field that is set
// fully replaces the corresponding top-level key; nested values are never
// merged. A step wanting to change one nested entry reads the value,
// modifies it, and writes the whole key back:
//
//	d := store.Read()
//	hours := d.Hours
//	hours["monday"] = DayHours{Lunch: MealPeriod{Open: true, Start: "12:00", End: "14:00"}}
//	store.Update(Patch{Hours: hours})
//
// Update is idempotent and skips persistence when the result is
// structurally identical to the current aggregate.
//
// # Persistence
//
// Persistence is best-effort through the Persister interface: a failed
// write is logged and the in-memory aggregate stays authoritative; the
// draft simply will not survive a restart. Slots are keyed per agent
// record id ("new" until a record exists), so concurrent sessions editing
// different agents do not share a slot.
package draft
