package expr

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/conneroisu/varfmt/internal/binding"
	varerrors "github.com/conneroisu/varfmt/internal/errors"
	"github.com/conneroisu/varfmt/internal/value"
)

var (
	errDivisionByZero = errors.New("division by zero")
	errOverflow       = errors.New("integer overflow")
)

type node interface {
	eval(ctx binding.Context) (any, error)
}

type literalNode struct {
	value any
}

func (n literalNode) eval(binding.Context) (any, error) { return n.value, nil }

type nameNode struct {
	name string
}

func (n nameNode) eval(ctx binding.Context) (any, error) {
	v, ok := ctx.Lookup(n.name)
	if !ok {
		return nil, varerrors.NewLookupError(n.name)
	}
	return v, nil
}

type orNode struct {
	left  node
	right node
}

func (n orNode) eval(ctx binding.Context) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	if value.Truthy(l) {
		return l, nil
	}
	return n.right.eval(ctx)
}

type andNode struct {
	left  node
	right node
}

func (n andNode) eval(ctx binding.Context) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	if !value.Truthy(l) {
		return l, nil
	}
	return n.right.eval(ctx)
}

type notNode struct {
	inner node
}

func (n notNode) eval(ctx binding.Context) (any, error) {
	v, err := n.inner.eval(ctx)
	if err != nil {
		return nil, err
	}
	return !value.Truthy(v), nil
}

type negNode struct {
	inner node
}

func (n negNode) eval(ctx binding.Context) (any, error) {
	v, err := n.inner.eval(ctx)
	if err != nil {
		return nil, err
	}
	num, ok := toNumber(v)
	if !ok {
		return nil, fmt.Errorf("cannot negate %T", v)
	}
	if num.isInt {
		if num.i == math.MinInt64 {
			return nil, errOverflow
		}
		return -num.i, nil
	}
	return -num.f, nil
}

type arithNode struct {
	op    tokenKind
	left  node
	right node
}

func (n arithNode) eval(ctx binding.Context) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}

	if n.op == tokenPlus && isString(l) && isString(r) {
		return value.String(l) + value.String(r), nil
	}

	a, okA := toNumber(l)
	b, okB := toNumber(r)
	if !okA || !okB {
		return nil, fmt.Errorf("unsupported operand types %T and %T", l, r)
	}

	if a.isInt && b.isInt {
		switch n.op {
		case tokenPlus, tokenMinus, tokenStar:
			return intArith(n.op, a.i, b.i)
		case tokenSlash:
			if b.i == 0 {
				return nil, errDivisionByZero
			}
			if a.i == math.MinInt64 && b.i == -1 {
				return nil, errOverflow
			}
			if a.i%b.i == 0 {
				return a.i / b.i, nil
			}
			return float64(a.i) / float64(b.i), nil
		case tokenPercent:
			if b.i == 0 {
				return nil, errDivisionByZero
			}
			return a.i % b.i, nil
		}
	}

	x, y := a.float(), b.float()
	switch n.op {
	case tokenPlus:
		return x + y, nil
	case tokenMinus:
		return x - y, nil
	case tokenStar:
		return x * y, nil
	case tokenSlash:
		if y == 0 {
			return nil, errDivisionByZero
		}
		return x / y, nil
	case tokenPercent:
		if y == 0 {
			return nil, errDivisionByZero
		}
		return math.Mod(x, y), nil
	}
	return nil, fmt.Errorf("unsupported operator")
}

// intArith applies +, - or * and fails instead of wrapping around.
func intArith(op tokenKind, a, b int64) (any, error) {
	var c int64
	var overflow bool
	switch op {
	case tokenPlus:
		c = a + b
		overflow = (c > a) != (b > 0)
	case tokenMinus:
		c = a - b
		overflow = (c < a) != (b > 0)
	default:
		c = a * b
		overflow = a != 0 && (c/a != b || (a == -1 && b == math.MinInt64))
	}
	if overflow {
		return nil, errOverflow
	}
	return c, nil
}

type compareNode struct {
	op    tokenKind
	left  node
	right node
}

func (n compareNode) eval(ctx binding.Context) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}

	cmp, ordered := compare(l, r)
	switch n.op {
	case tokenEq:
		return cmp == 0, nil
	case tokenNeq:
		return cmp != 0, nil
	}
	if !ordered {
		return nil, fmt.Errorf("cannot order %T and %T", l, r)
	}
	switch n.op {
	case tokenLt:
		return cmp < 0, nil
	case tokenLte:
		return cmp <= 0, nil
	case tokenGt:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

// compare returns -1, 0 or 1. ordered is false when the operands have no
// natural order; cmp is then 0 only for deeply equal values.
func compare(l, r any) (cmp int, ordered bool) {
	if a, ok := toNumber(l); ok {
		if b, ok := toNumber(r); ok {
			if a.isInt && b.isInt {
				switch {
				case a.i < b.i:
					return -1, true
				case a.i > b.i:
					return 1, true
				}
				return 0, true
			}
			x, y := a.float(), b.float()
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if isString(l) && isString(r) {
		a, b := value.String(l), value.String(r)
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if reflect.DeepEqual(l, r) {
		return 0, false
	}
	return 1, false
}

type number struct {
	i     int64
	f     float64
	isInt bool
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

func toNumber(v any) (number, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{i: i, isInt: true}, true
		}
		f, err := n.Float64()
		return number{f: f}, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int(), isInt: true}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return number{i: int64(u), isInt: true}, true
		}
		return number{f: float64(u)}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float()}, true
	}
	return number{}, false
}

func isString(v any) bool {
	if _, ok := v.(json.Number); ok {
		return false
	}
	return v != nil && reflect.TypeOf(v).Kind() == reflect.String
}
