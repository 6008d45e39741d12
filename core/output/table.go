package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// maxCellItems bounds how many list elements a table cell shows.
const maxCellItems = 3

// TableFormatter formats output as a borderless table.
type TableFormatter struct {
	// Fields are the json names of the columns (empty = all tagged fields).
	Fields []string
}

// Write outputs the data as a table
func (f *TableFormatter) Write(w io.Writer, data any) error {
	val := reflect.ValueOf(data)
	if val.Kind() == reflect.Slice {
		return f.writeSlice(w, val)
	}
	return f.writeSlice(w, reflect.ValueOf([]any{data}))
}

func (f *TableFormatter) writeSlice(w io.Writer, val reflect.Value) error {
	if val.Len() == 0 {
		fmt.Fprintln(w, "No items found")
		return nil
	}

	headers := f.headers(indirect(val.Index(0)))
	if len(headers) == 0 {
		fmt.Fprintln(w, "No items found")
		return nil
	}

	display := make([]string, len(headers))
	for i, h := range headers {
		display[i] = strings.ToUpper(h)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(display)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for i := 0; i < val.Len(); i++ {
		item := indirect(val.Index(i))
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = formatValue(fieldValue(item, h))
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

func (f *TableFormatter) headers(val reflect.Value) []string {
	if len(f.Fields) > 0 {
		return f.Fields
	}

	switch val.Kind() {
	case reflect.Struct:
		t := val.Type()
		headers := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if tag := jsonName(field); tag != "" && tag != "-" {
				headers = append(headers, tag)
			}
		}
		return headers
	case reflect.Map:
		headers := make([]string, 0, val.Len())
		for _, k := range val.MapKeys() {
			headers = append(headers, fmt.Sprint(k.Interface()))
		}
		return headers
	default:
		return []string{"value"}
	}
}

// indirect unwraps pointers and interfaces.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldValue returns the struct field tagged name, the map entry name, or
// the value itself for scalar rows.
func fieldValue(v reflect.Value, name string) any {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.IsExported() && (jsonName(field) == name || field.Name == name) {
				return v.Field(i).Interface()
			}
		}
		// promoted fields of embedded structs
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous && field.IsExported() && jsonName(field) == "" {
				if found := fieldValue(indirect(v.Field(i)), name); found != nil {
					return found
				}
			}
		}
		return nil
	case reflect.Map:
		for _, key := range v.MapKeys() {
			if fmt.Sprint(key.Interface()) == name {
				return v.MapIndex(key).Interface()
			}
		}
		return nil
	case reflect.Invalid:
		return nil
	default:
		if name == "value" {
			return v.Interface()
		}
		return nil
	}
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	case []string:
		if len(val) > maxCellItems {
			return fmt.Sprintf("%s (+%d)", strings.Join(val[:maxCellItems], ","), len(val)-maxCellItems)
		}
		return strings.Join(val, ",")
	case fmt.Stringer:
		return val.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}
