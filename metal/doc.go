// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package metal is the proprietary-API rhi backend, built on the hal Metal
// device. Importing it registers the backend with rhi.
//
// Metal has no packed 24-bit depth format on Apple silicon, so texture
// descriptions asking for Depth24PlusStencil8 are promoted to
// Depth32FloatStencil8 by Sanitize.
package metal
