package vulkan

import (
	"errors"
	"fmt"

	"github.com/gogpu/rhi"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// ErrNoDispatch is returned by native operations on a device opened
// without WithDispatch.
var ErrNoDispatch = fmt.Errorf("%w: vulkan: no dispatch table", rhi.ErrUnsupported)

// ErrLayoutDestroyed is returned when a destroyed descriptor-set layout is
// used to build a pipeline layout.
var ErrLayoutDestroyed = errors.New("vulkan: descriptor set layout destroyed")

func resultErr(call string, r vk.Result) error {
	return fmt.Errorf("%w: vulkan: %s failed: %d", rhi.ErrBackend, call, r)
}
