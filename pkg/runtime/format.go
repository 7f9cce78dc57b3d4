package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a value the way print writes it. Floats use the shortest
// representation that round-trips at their own precision.
func Format(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case StringValue:
		return val.Val
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		bits := 64
		if val.TypeSuffix == FloatF32 {
			bits = 32
		}
		return strconv.FormatFloat(val.Val, 'g', -1, bits)
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, elem := range val.Elements {
			parts[i] = Format(elem)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case VoidValue:
		return "void"
	case NativeFunctionValue:
		return fmt.Sprintf("<native %s>", val.Name)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
