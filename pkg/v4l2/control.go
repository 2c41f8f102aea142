//go:build linux

package v4l2

import "fmt"

// ControlType identifies what kind of value a control carries.
type ControlType uint32

// Control types from linux/videodev2.h.
const (
	ControlTypeInteger     ControlType = 1
	ControlTypeBoolean     ControlType = 2
	ControlTypeMenu        ControlType = 3
	ControlTypeButton      ControlType = 4
	ControlTypeInteger64   ControlType = 5
	ControlTypeCtrlClass   ControlType = 6
	ControlTypeString      ControlType = 7
	ControlTypeBitmask     ControlType = 8
	ControlTypeIntegerMenu ControlType = 9
)

func (t ControlType) String() string {
	switch t {
	case ControlTypeInteger:
		return "Integer"
	case ControlTypeBoolean:
		return "Boolean"
	case ControlTypeMenu:
		return "Menu"
	case ControlTypeButton:
		return "Button"
	case ControlTypeInteger64:
		return "Integer64"
	case ControlTypeCtrlClass:
		return "CtrlClass"
	case ControlTypeString:
		return "String"
	case ControlTypeBitmask:
		return "Bitmask"
	case ControlTypeIntegerMenu:
		return "IntegerMenu"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// isMenu reports whether controls of this type carry an item menu.
func (t ControlType) isMenu() bool {
	return t == ControlTypeMenu || t == ControlTypeIntegerMenu
}

// MenuItem is one entry of a menu control, resolved by index. For
// ControlTypeMenu the entry is a label and Name is set; for
// ControlTypeIntegerMenu it is numeric and Value is set.
type MenuItem struct {
	Index uint32
	Name  string
	Value int64
}

func (m MenuItem) String() string {
	if m.Name != "" {
		return fmt.Sprintf("%d: %s", m.Index, m.Name)
	}
	return fmt.Sprintf("%d: %d", m.Index, m.Value)
}

// decodeMenuItem interprets the querymenu union according to the parent
// control's type. Calling it for a non-menu type is a programming error and
// panics rather than silently coercing the payload.
func decodeMenuItem(typ ControlType, raw *v4l2Querymenu) MenuItem {
	switch typ {
	case ControlTypeMenu:
		return MenuItem{Index: raw.index, Name: raw.name()}
	case ControlTypeIntegerMenu:
		return MenuItem{Index: raw.index, Value: raw.value()}
	default:
		panic(fmt.Sprintf("v4l2: menu item decode for non-menu control type %s", typ))
	}
}

// ControlInfo describes one configurable device parameter as reported by
// the driver. Items is populated exactly when Type is ControlTypeMenu or
// ControlTypeIntegerMenu; it may be empty if the driver populated none of
// its advertised indices.
type ControlInfo struct {
	ID      uint32
	Name    string
	Type    ControlType
	Min     int32
	Max     int32
	Step    int32
	Default int32
	Flags   uint32
	Items   []MenuItem
}

// ValueKind tags the payload variant of a ControlValue.
type ValueKind uint8

const (
	// ValueInt is a single scalar control value, the only kind SetControl
	// accepts today.
	ValueInt ValueKind = iota
	// ValueInt64 is reserved for 64-bit integer controls.
	ValueInt64
	// ValueString is reserved for string controls.
	ValueString
)

func (k ValueKind) String() string {
	switch k {
	case ValueInt:
		return "int"
	case ValueInt64:
		return "int64"
	case ValueString:
		return "string"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ControlValue is the current or desired value of a control. Exactly one
// payload field is meaningful, selected by Kind.
type ControlValue struct {
	Kind  ValueKind
	Int   int32
	Int64 int64
	Str   string
}

// IntValue builds the scalar variant.
func IntValue(v int32) ControlValue {
	return ControlValue{Kind: ValueInt, Int: v}
}

func (v ControlValue) String() string {
	switch v.Kind {
	case ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case ValueInt64:
		return fmt.Sprintf("%d", v.Int64)
	case ValueString:
		return v.Str
	default:
		return "<invalid>"
	}
}
