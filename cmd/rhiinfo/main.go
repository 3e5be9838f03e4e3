// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command rhiinfo lists the rhi backends linked into the binary, opens a
// device and prints its capabilities.
//
// Usage:
//
//	rhiinfo [-backend vulkan|metal|opengl] [-power high|low] [-image file.png] [-v]
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rhi"
	_ "github.com/gogpu/rhi/metal"
	_ "github.com/gogpu/rhi/opengl"
	"github.com/gogpu/rhi/tracker"
	_ "github.com/gogpu/rhi/vulkan"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	var (
		backend = flag.String("backend", "", "backend to open (default: best available)")
		power   = flag.String("power", "", "adapter preference: high or low")
		imgPath = flag.String("image", "", "upload this image as a texture")
		verbose = flag.Bool("v", false, "log device events to stderr")
	)
	flag.Parse()

	if *verbose {
		rhi.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	fmt.Println("Registered backends:")
	for _, b := range rhi.Available() {
		fmt.Printf("  %s\n", b)
	}

	counts := tracker.NewCounting()
	opts := []rhi.Option{
		rhi.WithLabel("rhiinfo"),
		rhi.WithResourceTracker(tracker.Multi(counts, tracker.Logging())),
	}
	switch strings.ToLower(*power) {
	case "":
	case "high":
		opts = append(opts, rhi.WithPowerPreference(gputypes.PowerPreferenceHighPerformance))
	case "low":
		opts = append(opts, rhi.WithPowerPreference(gputypes.PowerPreferenceLowPower))
	default:
		log.Fatalf("unknown power preference %q", *power)
	}

	dev, err := openDevice(*backend, opts)
	if err != nil {
		log.Fatalf("open device: %v", err)
	}
	defer dev.Close()

	printDevice(dev)

	if *imgPath != "" {
		if err := uploadImage(dev, *imgPath); err != nil {
			log.Fatalf("upload %s: %v", *imgPath, err)
		}
	}
	fmt.Println(counts.Stats())
}

func openDevice(name string, opts []rhi.Option) (rhi.Device, error) {
	if name == "" {
		return rhi.OpenBest(opts...)
	}
	b, err := rhi.ParseBackendType(name)
	if err != nil {
		return nil, err
	}
	return rhi.Open(b, opts...)
}

func printDevice(dev rhi.Device) {
	fmt.Printf("\nBackend:   %s\n", dev.BackendType())
	fmt.Printf("Z range:   %s\n", dev.NormalizedZRange())
	fmt.Printf("Debug:     %s\n", dev.BackendDebugColor().Hex())
	fmt.Printf("Platform:  %s\n", platformType(dev.PlatformDevice()))

	fmt.Println("\nFeatures:")
	for _, f := range rhi.AllFeatures() {
		mark := " "
		if dev.HasFeature(f) {
			mark = "x"
		}
		fmt.Printf("  [%s] %s\n", mark, f)
	}

	fmt.Println("\nLimits:")
	limits := []struct {
		name string
		l    rhi.DeviceFeatureLimit
	}{
		{"MaxTextureDimension2D", rhi.LimitMaxTextureDimension2D},
		{"MaxTextureDimension3D", rhi.LimitMaxTextureDimension3D},
		{"MaxTextureArrayLayers", rhi.LimitMaxTextureArrayLayers},
		{"MaxBufferSize", rhi.LimitMaxBufferSize},
		{"MaxVertexAttributes", rhi.LimitMaxVertexAttributes},
		{"MaxVertexBuffers", rhi.LimitMaxVertexBuffers},
		{"MaxColorAttachments", rhi.LimitMaxColorAttachments},
		{"MaxBindGroups", rhi.LimitMaxBindGroups},
	}
	for _, l := range limits {
		if v, ok := dev.FeatureLimits(l.l); ok {
			fmt.Printf("  %-24s %d\n", l.name, v)
		}
	}

	fmt.Println("\nFormats:")
	for _, f := range []gputypes.TextureFormat{
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatRGBA16Float,
		gputypes.TextureFormatDepth24PlusStencil8,
		gputypes.TextureFormatDepth32Float,
	} {
		fmt.Printf("  %-24s %s\n", f, formatCaps(dev.TextureFormatCapabilities(f)))
	}
	fmt.Println()
}

func platformType(p rhi.PlatformDevice) rhi.PlatformDeviceType {
	if p == nil {
		return rhi.PlatformDeviceUnknown
	}
	return p.PlatformType()
}

func formatCaps(c rhi.TextureFormatCapabilities) string {
	names := []struct {
		c    rhi.TextureFormatCapabilities
		name string
	}{
		{rhi.TextureFormatSampled, "sampled"},
		{rhi.TextureFormatStorage, "storage"},
		{rhi.TextureFormatAttachment, "attachment"},
		{rhi.TextureFormatBlendable, "blendable"},
		{rhi.TextureFormatMultisample, "msaa"},
		{rhi.TextureFormatMultisampleResolve, "resolve"},
	}
	var parts []string
	for _, n := range names {
		if c.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func uploadImage(dev rhi.Device, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return err
	}
	desc, err := rhi.NewTextureDescFromImage(img, path)
	if err != nil {
		return err
	}
	var out rhi.Result
	tex := dev.CreateTexture(desc, &out)
	if tex == nil {
		return out.Err()
	}
	defer tex.Release()
	d := tex.Desc()
	fmt.Printf("Uploaded %s: %dx%d %s\n", path, d.Width, d.Height, d.Format)
	return nil
}
