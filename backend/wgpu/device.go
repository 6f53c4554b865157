package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// errNoAdapter is returned when the HAL instance exposes no adapter.
var errNoAdapter = errors.New("wgpu: no adapter available")

// halDevice is everything opened from one HAL backend.
type halDevice struct {
	instance hal.Instance
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue
}

// openDevice creates an instance on b and opens its first adapter.
func openDevice(b hal.Backend) (*halDevice, error) {
	instance, err := b.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errNoAdapter
	}
	exposed := adapters[0]
	open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	return &halDevice{
		instance: instance,
		adapter:  exposed.Adapter,
		info:     exposed.Info,
		device:   open.Device,
		queue:    open.Queue,
	}, nil
}

func (d *halDevice) destroy() {
	d.device.Destroy()
	d.adapter.Destroy()
	d.instance.Destroy()
}

// adapterCount returns how many adapters the instance currently exposes.
func adapterCount(instance hal.Instance) int {
	return len(instance.EnumerateAdapters(nil))
}

// providerInfo maps HAL adapter metadata to the gpucontext form renderers
// use to choose between GPU and CPU paths.
func providerInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: info.Name, Type: t}
}
