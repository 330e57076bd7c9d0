// Package state persists submitted style option values.
//
// A Store only loads and saves the value of one option on one entity. The
// Repository runs submissions through the engine so that stored values are
// always canonical, guards writes with ETags and stamps every save with a new
// snapshot id.
//
// Data flow:
//
//	raw form input -> Engine.Submit -> Repository -> Store.Save
//
// Deterministic keys:
//
//	Ref.Identifier() yields `entity/<entity>/option/<option id>`; adapters
//	use it as their storage key.
package state
