// Package match locates a target color inside a sampled picker patch.
//
// The search is sparse: only every Stride-th pixel in each axis is compared,
// which is enough for the smooth gradients of a typical color picker and keeps
// the scan cheap on large patches.
package match
