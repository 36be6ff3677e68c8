// Package mcmc implements the affine-invariant ensemble sampler of Goodman
// and Weare (2010) with the stretch move.
//
// A Sampler draws a fixed number of steps for every walker. Run honours
// context cancellation between steps and returns the chain recorded so far,
// so long posterior explorations can be interrupted without losing work.
// Chains serialise to msgpack with Save and Load.
package mcmc
