//go:build linux

package v4l2

import "unsafe"

// Compile-time struct size assertions.
// These will cause build failures if struct sizes don't match kernel expectations.
var (
	_ [104]byte = [unsafe.Sizeof(v4l2Capability{})]byte{}
	_ [68]byte  = [unsafe.Sizeof(v4l2Queryctrl{})]byte{}
	_ [44]byte  = [unsafe.Sizeof(v4l2Querymenu{})]byte{}
	_ [8]byte   = [unsafe.Sizeof(v4l2Control{})]byte{}
)

// Request codes for the control and capability ioctls. These records carry
// only 32-bit fields (the querymenu union is packed), so the codes are the
// same on amd64, arm64 and arm.
const (
	vidiocQuerycap  = 0x80685600 // VIDIOC_QUERYCAP
	vidiocGCtrl     = 0xc008561b // VIDIOC_G_CTRL
	vidiocSCtrl     = 0xc008561c // VIDIOC_S_CTRL
	vidiocQueryctrl = 0xc0445624 // VIDIOC_QUERYCTRL
	vidiocQuerymenu = 0xc02c5625 // VIDIOC_QUERYMENU
)

// Enumeration flag bits ORed into the queryctrl id so the driver advances
// its cursor to the next supported control.
const (
	ctrlFlagNextCtrl     = 0x80000000 // V4L2_CTRL_FLAG_NEXT_CTRL
	ctrlFlagNextCompound = 0x40000000 // V4L2_CTRL_FLAG_NEXT_COMPOUND
)

// v4l2Capability has size 104 bytes.
type v4l2Capability struct {
	driver       [16]byte  // offset 0
	card         [32]byte  // offset 16
	busInfo      [32]byte  // offset 48
	version      uint32    // offset 80
	capabilities uint32    // offset 84
	deviceCaps   uint32    // offset 88
	reserved     [3]uint32 // offset 92
}

// v4l2Queryctrl has size 68 bytes.
type v4l2Queryctrl struct {
	id           uint32    // offset 0
	typ          uint32    // offset 4
	name         [32]byte  // offset 8
	minimum      int32     // offset 40
	maximum      int32     // offset 44
	step         int32     // offset 48
	defaultValue int32     // offset 52
	flags        uint32    // offset 56
	reserved     [2]uint32 // offset 60
}

// v4l2Querymenu has size 44 bytes. The kernel declares it packed, so the
// union lives in a byte array and is decoded manually.
type v4l2Querymenu struct {
	id       uint32   // offset 0
	index    uint32   // offset 4
	u        [32]byte // offset 8 - union: name [32]byte / value int64
	reserved uint32   // offset 40
}

// name returns the label variant of the union.
func (m *v4l2Querymenu) name() string {
	return cstr(m.u[:])
}

// value returns the integer variant of the union. V4L2 is little-endian on
// every architecture this package builds for.
func (m *v4l2Querymenu) value() int64 {
	v := uint64(m.u[0]) | uint64(m.u[1])<<8 | uint64(m.u[2])<<16 | uint64(m.u[3])<<24 |
		uint64(m.u[4])<<32 | uint64(m.u[5])<<40 | uint64(m.u[6])<<48 | uint64(m.u[7])<<56
	return int64(v)
}

// setValue stores the integer variant of the union (used by tests that
// simulate driver responses).
func (m *v4l2Querymenu) setValue(v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		m.u[i] = byte(u >> (8 * i))
	}
}

// v4l2Control has size 8 bytes.
type v4l2Control struct {
	id    uint32 // offset 0
	value int32  // offset 4
}
