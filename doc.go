// Package impulse is a 2D rigid-body physics engine: vector math, circle
// and rectangle bodies, impulse-based collision resolution with friction
// and restitution, a uniform spatial hash grid for broad-phase pruning,
// raycasting, and a fixed-timestep world with global forces, bounds
// enforcement, and synchronous event notification.
//
// A World is single-threaded: all body mutation happens inside Update on
// the caller's goroutine. Bodies may be added and removed between frames;
// mutating a world while a step is in progress is not supported.
package impulse
