package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const indentStep = "  "

var (
	keyColor     = color.New(color.FgCyan)
	stringColor  = color.New(color.FgGreen)
	numberColor  = color.New(color.FgYellow)
	literalColor = color.New(color.FgMagenta)
)

// DecodeError reports a response that was requested as JSON but did not
// parse. It is non-fatal; rendering falls back to plain text.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "response is not valid JSON: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Response prints the assistant content to w. In JSON mode valid JSON is
// pretty-printed and colorized; anything else falls back to plain text after
// a warning on wErr.
func Response(w, wErr io.Writer, content string, jsonMode bool) error {
	if !jsonMode {
		_, err := fmt.Fprintln(w, content)
		return err
	}

	value, err := Parse(content)
	if err != nil {
		fmt.Fprintf(wErr, "warning: %v, printing as plain text\n", err)
		_, err := fmt.Fprintln(w, content)
		return err
	}

	if err := writeValue(w, value, 0); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// Parse decodes content as a single JSON value, preserving number literals.
func Parse(content string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if dec.More() {
		return nil, &DecodeError{Err: fmt.Errorf("trailing data after JSON value")}
	}
	return value, nil
}

func writeValue(w io.Writer, value any, depth int) error {
	switch v := value.(type) {
	case map[string]any:
		return writeObject(w, v, depth)
	case []any:
		return writeArray(w, v, depth)
	case string:
		_, err := stringColor.Fprint(w, strconv.Quote(v))
		return err
	case json.Number:
		_, err := numberColor.Fprint(w, v.String())
		return err
	case bool:
		_, err := literalColor.Fprint(w, strconv.FormatBool(v))
		return err
	case nil:
		_, err := literalColor.Fprint(w, "null")
		return err
	default:
		_, err := fmt.Fprintf(w, "%v", v)
		return err
	}
}

func writeObject(w io.Writer, obj map[string]any, depth int) error {
	if len(obj) == 0 {
		_, err := fmt.Fprint(w, "{}")
		return err
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if _, err := fmt.Fprint(w, "{\n"); err != nil {
		return err
	}
	inner := strings.Repeat(indentStep, depth+1)
	for i, key := range keys {
		if _, err := fmt.Fprint(w, inner); err != nil {
			return err
		}
		if _, err := keyColor.Fprint(w, strconv.Quote(key)); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, ": "); err != nil {
			return err
		}
		if err := writeValue(w, obj[key], depth+1); err != nil {
			return err
		}
		if i < len(keys)-1 {
			if _, err := fmt.Fprint(w, ","); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, strings.Repeat(indentStep, depth)+"}")
	return err
}

func writeArray(w io.Writer, arr []any, depth int) error {
	if len(arr) == 0 {
		_, err := fmt.Fprint(w, "[]")
		return err
	}

	if _, err := fmt.Fprint(w, "[\n"); err != nil {
		return err
	}
	inner := strings.Repeat(indentStep, depth+1)
	for i, item := range arr {
		if _, err := fmt.Fprint(w, inner); err != nil {
			return err
		}
		if err := writeValue(w, item, depth+1); err != nil {
			return err
		}
		if i < len(arr)-1 {
			if _, err := fmt.Fprint(w, ","); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, strings.Repeat(indentStep, depth)+"]")
	return err
}
