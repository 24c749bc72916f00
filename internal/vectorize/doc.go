// Package vectorize turns real-time MRI frame volumes and annotated label
// intervals into fixed-shape sample vectors.
//
// Responsibilities: radial sampling-line geometry (with optional seeded
// jitter), alignment of annotation times to frame indices, pixel
// extraction along the sampling lines, and zero-padded batch assembly.
// Key types: Geometry, Sampler, Volume, Interval, Tensor3, Batch.
//
// Everything here is synchronous and free of I/O. Errors are returned to
// the caller and never logged; callers decide whether to skip a record or
// abort the batch.
package vectorize
