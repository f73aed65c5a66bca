// Package input defines the per-tick control snapshot written by the
// driver and the recorded traces used to replay a run.
package input

// Frame holds the controls sampled for one tick. Several movement bits may
// be held at once; the repair and refuel holds only act when no movement
// bit is set.
type Frame struct {
	RotateLeft     bool `msgpack:"rl" json:"rotate_left"`
	RotateRight    bool `msgpack:"rr" json:"rotate_right"`
	ThrustForward  bool `msgpack:"tf" json:"thrust_forward"`
	ThrustBackward bool `msgpack:"tb" json:"thrust_backward"`
	Fire           bool `msgpack:"f" json:"fire"`
	RepairHold     bool `msgpack:"rp" json:"repair_hold"`
	RefuelHold     bool `msgpack:"rf" json:"refuel_hold"`
	Quit           bool `msgpack:"q" json:"quit"`
}

// Moving reports whether any movement bit is set
func (f Frame) Moving() bool {
	return f.RotateLeft || f.RotateRight || f.ThrustForward || f.ThrustBackward
}

// Bits packs the frame into a byte, one bit per control in field order
func (f Frame) Bits() uint8 {
	var b uint8
	for i, set := range []bool{
		f.RotateLeft, f.RotateRight, f.ThrustForward, f.ThrustBackward,
		f.Fire, f.RepairHold, f.RefuelHold, f.Quit,
	} {
		if set {
			b |= 1 << i
		}
	}
	return b
}

// FrameFromBits is the inverse of Frame.Bits
func FrameFromBits(b uint8) Frame {
	bit := func(i int) bool { return b&(1<<i) != 0 }
	return Frame{
		RotateLeft:     bit(0),
		RotateRight:    bit(1),
		ThrustForward:  bit(2),
		ThrustBackward: bit(3),
		Fire:           bit(4),
		RepairHold:     bit(5),
		RefuelHold:     bit(6),
		Quit:           bit(7),
	}
}
