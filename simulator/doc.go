// Package simulator produces synthetic positions for tracked agents.
//
// A Generator builds a morning of history per agent as a random walk, and Live
// appends a fresh position for every agent on a fixed interval. Both draw from an
// explicitly seeded source, so a given seed always yields the same data.
package simulator
