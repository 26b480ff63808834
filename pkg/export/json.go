package export

import (
	"io"
	"math"
	"strconv"

	"github.com/valyala/fastjson"

	"github.com/quidome/exif-extract-go/pkg/extract"
)

// WriteJSON writes the table as a JSON array with one object per record.
// Object keys follow schema order; fields a record lacks are omitted.
func WriteJSON(w io.Writer, table *extract.Table) error {
	var a fastjson.Arena
	fields := table.Fields()

	arr := a.NewArray()
	for i, r := range table.Records() {
		obj := a.NewObject()
		for _, name := range fields {
			v, ok := r.Get(name)
			if !ok {
				continue
			}
			obj.Set(name, jsonValue(&a, v))
		}
		arr.SetArrayItem(i, obj)
	}

	buf := arr.MarshalTo(nil)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}

func jsonValue(a *fastjson.Arena, v any) *fastjson.Value {
	switch x := v.(type) {
	case nil:
		return a.NewNull()
	case string:
		return a.NewString(x)
	case bool:
		if x {
			return a.NewTrue()
		}
		return a.NewFalse()
	case float64:
		return jsonFloat(a, x)
	case int64:
		return a.NewNumberString(strconv.FormatInt(x, 10))
	case int:
		return a.NewNumberInt(x)
	case []float64:
		arr := a.NewArray()
		for i, f := range x {
			arr.SetArrayItem(i, jsonFloat(a, f))
		}
		return arr
	case []int64:
		arr := a.NewArray()
		for i, n := range x {
			arr.SetArrayItem(i, a.NewNumberString(strconv.FormatInt(n, 10)))
		}
		return arr
	}
	return a.NewString(FormatValue(v))
}

// jsonFloat writes NaN and infinities as strings since JSON has no
// representation for them.
func jsonFloat(a *fastjson.Arena, f float64) *fastjson.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return a.NewString(formatFloat(f))
	}
	return a.NewNumberString(strconv.FormatFloat(f, 'g', -1, 64))
}
