// Package coqffi moves typed values across the boundary between a proof
// assistant's extracted programs and an external runtime, using a single
// canonical tree-shaped wire value.
//
// Components:
//   - tree.Tree: the canonical leaf/branch wire value. Carries no type
//     tags; both sides agree on the expected type out-of-band.
//   - codec.Codec[V]: total encode/decode between V and trees. Base
//     codecs for unit, bool and arbitrary-precision integers; Morph,
//     Product, Sum, Seq and Option combinators assemble codecs for
//     composite types from their components.
//   - wire.Marshaler: frames a tree as bytes (framed binary, CBOR,
//     msgpack) for transport out of the process.
//   - Exchange: a named drop-box where one side deposits encoded trees
//     and the other picks them up, over a pluggable byte Provider
//     (BigCache, Ristretto, Redis) with per-key generations to detect
//     stale deposits.
//
// Hand-off pattern:
//
//	obs, _ := ex.SnapshotGen(ctx, "query") // before producing
//	t := codec.String().Encode(result)
//	_ = ex.PutWithGen(ctx, "query", t, obs, 0) // deposit iff still current
package coqffi
