// Package artwork prepares generated interest illustrations for badge
// rendering.
//
// Generated images arrive with off-white backgrounds and loose framing.
// [Normalize] snaps the background to pure white so padding blends invisibly,
// and [Crop] tightens the frame around the content and extends it to the
// exact 2:1 aspect the interests band expects. Both operate on in-memory
// pixel buffers, are deterministic, and are idempotent, so re-running the
// pipeline over already processed assets is harmless.
//
// [Fetch] downloads an asset over HTTP with retries and hands it to the
// processing functions.
package artwork
