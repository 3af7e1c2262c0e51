// printer.go — rendering of runtime values for the output forms and the
// REPL. Strings print raw (no quotes); lists and maps print bracketed with
// comma-space separators and ':' between map keys and values.
package boba

import (
	"strconv"
	"strings"
)

// FormatValue renders v the way output prints it.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Tag {
	case VTNull:
		b.WriteString("null")
	case VTInt:
		b.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case VTFloat:
		b.WriteString(formatFloat(v.AsFloat()))
	case VTStr:
		b.WriteString(v.AsStr())
	case VTBool:
		b.WriteString(strconv.FormatBool(v.AsBool()))
	case VTList:
		b.WriteByte('[')
		for i, item := range v.AsList() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	case VTMap:
		b.WriteByte('[')
		for i, pair := range v.AsMap() {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, pair.Key)
			b.WriteByte(':')
			writeValue(b, pair.Val)
		}
		b.WriteByte(']')
	case VTFun:
		b.WriteString("<function ")
		b.WriteString(v.AsFun().Name)
		b.WriteByte('>')
	}
}

// formatFloat prints a float in its shortest round-trip form: whole floats
// render without a trailing ".0" (3.0 prints as "3").
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
