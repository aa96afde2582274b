// Package kernel implements the per-pixel tracing pipeline: camera ray
// generation, closest-hit intersection against the ground plane and the
// scene spheres, single-light shading with hard shadows, a bounded
// reflection loop and the progressive sample blend.
//
// All functions are pure; per-frame inputs are carried by an immutable
// FrameContext so pixels can be traced concurrently without locking.
package kernel
