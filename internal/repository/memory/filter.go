package memory

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// millis distinguishes instants from plain numbers when comparing.
type millis int64

func matches(doc bson.M, filter bson.M) (bool, error) {
	for key, want := range filter {
		got, present := doc[key]
		ops, isOps := isOperatorDoc(want)
		if !isOps {
			if !present {
				if want == nil {
					continue
				}
				return false, nil
			}
			if !equal(got, want) {
				return false, nil
			}
			continue
		}
		for op, arg := range ops {
			ok, err := evaluate(op, got, present, arg)
			if err != nil {
				return false, fmt.Errorf("filter on %s: %w", key, err)
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

func evaluate(op string, got any, present bool, arg any) (bool, error) {
	switch op {
	case "$eq":
		return present && equal(got, arg), nil
	case "$ne":
		return !present || !equal(got, arg), nil
	case "$exists":
		return present == truthy(arg), nil
	case "$in":
		values, err := elements(arg)
		if err != nil {
			return false, err
		}
		if !present {
			return false, nil
		}
		for _, v := range values {
			if equal(got, v) {
				return true, nil
			}
		}
		return false, nil
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false, nil
		}
		c, ok := compare(normalize(got), normalize(arg))
		if !ok {
			return false, nil
		}
		switch op {
		case "$gt":
			return c > 0, nil
		case "$gte":
			return c >= 0, nil
		case "$lt":
			return c < 0, nil
		default:
			return c <= 0, nil
		}
	default:
		return false, fmt.Errorf("unsupported operator %s", op)
	}
}

func elements(arg any) ([]any, error) {
	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("$in expects an array, got %T", arg)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func equal(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize folds the representations a value may take before and after a bson
// round trip onto one comparable form.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case primitive.DateTime:
		return millis(t)
	case time.Time:
		return millis(t.UnixMilli())
	case primitive.ObjectID:
		return t.Hex()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	default:
		return v
	}
}

// compare orders two normalized values. Missing values sort first.
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		if !ok {
			return 0, false
		}
		return cmpOrdered(x, y), true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case millis:
		y, ok := b.(millis)
		if !ok {
			return 0, false
		}
		return cmpOrdered(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func cmpOrdered[T float64 | millis](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
