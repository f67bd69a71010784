package vals

import (
	"fmt"
	"strconv"
	"strings"
)

// Repr returns a textual representation of the value. The representation is
// intended for display and test diffs, not for round-tripping.
func Repr(v Value) string {
	switch v := v.(type) {
	case Bool:
		return strconv.FormatBool(v.B)
	case Int:
		return strconv.FormatInt(v.I, 10)
	case Float:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case String:
		return v.S
	case Binary:
		return fmt.Sprintf("0x%x", v.Data)
	case Range:
		if v.Unbounded {
			return fmt.Sprintf("%d..", v.From)
		}
		if v.Step != 1 {
			return fmt.Sprintf("%d..%d..%d", v.From, v.From+v.Step, v.To)
		}
		return fmt.Sprintf("%d..%d", v.From, v.To)
	case Date:
		return v.T.Format("2006-01-02 15:04:05")
	case Duration:
		return v.D.String()
	case Filesize:
		return formatFilesize(v.Bytes)
	case List:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = Repr(it)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Record:
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			k, val := v.Index(i)
			parts[i] = k + "=" + Repr(val)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Closure:
		return fmt.Sprintf("<closure %d>", v.Block)
	case Error:
		return "error: " + v.Err.Error()
	case Custom:
		return "<" + v.Val.TypeName() + ">"
	case Nothing:
		return "$nothing"
	}
	return fmt.Sprintf("<unknown %T>", v)
}

var sizeUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

func formatFilesize(bytes int64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d%s", bytes, sizeUnits[0])
	}
	return fmt.Sprintf("%.1f%s", size, sizeUnits[unit])
}
