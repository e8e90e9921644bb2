// Package badge defines the data model for badge generation.
//
// Three kinds of types live here:
//
//   - Input records: [Attendee], [Event], and [TagCategory] mirror the JSON
//     produced by the registration system. Every field except the attendee
//     name is optional.
//   - Template: the fixed 3"×4" canvas description ([Template]) with its
//     margins, zones, and font roles. Templates are declared in TOML.
//   - Layout: the fully resolved geometry descriptor ([Layout]) produced by
//     the layout engine. It contains no unresolved decisions: every font
//     size, truncation, position, and scaled dimension is final. Render
//     sinks consume it verbatim.
//
// The Layout type is the canonical serialization format shared by the CLI,
// the HTTP API, and the cache: compose once, render many times.
//
// # Optional-field policy
//
// Presence decisions (has title? has location? has interests?) are resolved
// exactly once, by [Attendee.Resolve], into explicit booleans. Layout code
// takes those booleans and never re-derives presence from raw pointers.
package badge
