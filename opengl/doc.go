// Package opengl is the legacy-API rhi backend, built on the hal GLES
// device.
//
// The clip-space depth range is [-1, 1]. Texture descriptions are
// normalized for what GLES drivers reliably allocate: sample counts are
// either 1 or 4, and BGRA8 formats become RGBA8.
//
// Importing the package registers the backend with rhi.
package opengl
