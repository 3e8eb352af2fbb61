// Package usbtransport adapts a claimed USB device handle — shaped like
// other_examples/kevmo314-go-usb's DeviceHandleInterface, the real
// ecosystem convention for a Go libusb-style binding — to the
// transport.Endpoints interface the core consumes. It performs no
// enumeration, claiming, or configuration of its own: per SPEC_FULL.md
// §1/§6, the core is device-ID-agnostic and receives endpoints already
// opened by the external whitelist/enumeration layer.
package usbtransport

import (
	"time"
)

// BulkTransferrer is the subset of kevmo314-go-usb's DeviceHandleInterface
// this adapter needs: a single bidirectional bulk-transfer method keyed by
// endpoint address, matching real USB host-controller bindings.
type BulkTransferrer interface {
	BulkTransfer(endpoint uint8, data []byte, timeout time.Duration) (int, error)
}

// Endpoints implements transport.Endpoints over a claimed device handle
// and a resolved (in, out) endpoint address pair, mirroring the
// bulk_in/bulk_out closures of original_source/src/device.rs's
// operate_device but expressed as the ecosystem's BulkTransfer call
// instead of rusb's read_bulk/write_bulk pair.
type Endpoints struct {
	handle  BulkTransferrer
	inAddr  uint8
	outAddr uint8
}

// New wraps handle, reading from inAddr and writing to outAddr.
func New(handle BulkTransferrer, inAddr, outAddr uint8) *Endpoints {
	return &Endpoints{handle: handle, inAddr: inAddr, outAddr: outAddr}
}

// BulkOut writes data to the OUT endpoint.
func (e *Endpoints) BulkOut(data []byte, timeout time.Duration) (int, error) {
	return e.handle.BulkTransfer(e.outAddr, data, timeout)
}

// BulkIn reads into buf from the IN endpoint.
func (e *Endpoints) BulkIn(buf []byte, timeout time.Duration) (int, error) {
	return e.handle.BulkTransfer(e.inAddr, buf, timeout)
}
