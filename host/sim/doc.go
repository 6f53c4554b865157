// Package sim is an in-process XR host.
//
// A System grants at most one session at a time for the modes it supports.
// Each Session keeps a table of pending frame callbacks keyed by
// xr.FrameRequestID. A presentation tick runs exactly the callbacks that
// were pending when the tick began, so a callback that re-registers itself
// runs on the next tick, never twice in the same one.
//
// Ticks are driven manually with Session.Tick, by a Clock at a fixed rate,
// or by the preview window.
//
//	sys := sim.NewSystem(sim.WithModes(xr.ImmersiveVR))
//	rt, err := xr.Setup(ctx, sys, software.New())
//	...
//	clock := sim.NewClock(sys.Active(), 72)
//	err = clock.Run(ctx, 0)
package sim
