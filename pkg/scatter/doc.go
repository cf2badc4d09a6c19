// Package scatter computes deterministic scatter-plot positions for entities.
//
// # Overview
//
// Each [Entity] carries a set of numeric attributes keyed by a closed set of
// [AxisKey] values. Given an [AxisSelection], [ComputeLayout] reads the two
// selected attributes of every entity and produces one [PositionedPoint] per
// entity, in input order.
//
// Entities that would land on the same rendered spot are spread apart with a
// small, name-seeded displacement:
//
//   - Raw values are quantized to two decimal digits to form a collision key.
//   - The first entity (in input order) seen at a key keeps its exact values.
//   - Every later entity at that key is displaced on each axis by an offset
//     derived only from its name, strictly inside (-amount/2, amount/2).
//   - An axis whose raw value is exactly 0 or exactly 1 is never displaced.
//
// The same name always yields the same offset, no matter where the entity
// appears in the input or how many entities there are, so layouts are
// bit-identical across runs.
//
// # Missing values
//
// A missing or NaN attribute is positioned at 0. [PositionedPoint.MissingX]
// and [PositionedPoint.MissingY] record this so renderers can print
// "unknown" instead of the placeholder value.
//
// # Known limitations
//
// Three or more entities sharing one collision key are displaced
// independently and may still partially overlap. There is no iterative
// separation.
//
// Entity names must be unique within one call. The engine does not enforce
// this; duplicate names produce points that a hit test cannot tell apart.
// Callers suffix duplicates beforehand (see dataset.UniqueNames).
//
// # Usage
//
//	points := scatter.ComputeLayout(entities, scatter.AxisSelection{
//	    X: scatter.CodeLevel,
//	    Y: scatter.Complexity,
//	})
//
// Pixel projection lives in [viewport] and hit testing in [hit].
//
// [viewport]: github.com/matzehuels/agentscape/pkg/scatter/viewport
// [hit]: github.com/matzehuels/agentscape/pkg/scatter/hit
package scatter
