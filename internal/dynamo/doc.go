// Package dynamo provides the primitives shared by every pendulab package.
//
//   - [Vec2]: a 2D point in logical (pre-scale) surface coordinates
//   - [Range]: closed parameter interval used at the editing boundary
//   - sentinel errors returned by boundary operations
//
// Nothing in this package allocates per frame; the hot path (integrate,
// trace, render) only passes Vec2 values around.
package dynamo
