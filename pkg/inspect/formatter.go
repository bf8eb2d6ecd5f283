package inspect

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowOffsets includes byte offsets and sizes in entry tables
	ShowOffsets bool

	// ShowTypes includes type descriptors in entry tables
	ShowTypes bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowOffsets: true,
		ShowTypes:   true,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a decoded value for display. Map keys are sorted so
// the output is stable.
func (f *Formatter) FormatValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"

	case string:
		return fmt.Sprintf("%q", v)

	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)

	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)

	case []byte:
		return fmt.Sprintf("0x%x", v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = f.FormatValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case reflect.Map:
		parts := make([]string, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().Interface()
			k := fmt.Sprint(key)
			if s, ok := key.(string); ok {
				k = strconv.Quote(s)
			}
			parts = append(parts, k+": "+f.FormatValue(iter.Value().Interface()))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ", ") + "}"

	default:
		return fmt.Sprintf("%v", value)
	}
}

// FormatEntries writes entries as an aligned table.
func (f *Formatter) FormatEntries(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "  (no entries)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		var cols []string
		if f.ShowOffsets {
			cols = append(cols, fmt.Sprintf("@%d", e.Offset), fmt.Sprintf("%dB", e.Size))
		}
		cols = append(cols, fmt.Sprintf("[%d]", e.Index), e.Label)
		if f.ShowTypes && e.Type != nil {
			cols = append(cols, e.Type.String())
		}
		cols = append(cols, f.FormatValue(e.Value))
		if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
