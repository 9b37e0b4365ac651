// Package belief implements exact inference over a junction forest (C6):
// collect (post-order) and distribute (pre-order) message passing between
// clique potentials, followed by joint reconstruction as the ratio of
// clique-potential products to separator-potential products.
//
// Message passing here mirrors the push-relabel-style two-phase
// propagation the teacher's flow package uses for max-flow (an initial
// pass that saturates outward, then a second pass that reconciles
// excess), adapted from flow units to probability mass: collect pushes
// corrective ratios up toward the root, distribute pushes them back down.
package belief
