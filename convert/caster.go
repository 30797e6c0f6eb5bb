package convert

import (
	"errors"
	"fmt"
	"path"
	"reflect"
	"runtime"
	"strings"

	"scope-caster/primitive"
	"scope-caster/source"
	"scope-caster/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// casterRule wraps a user-supplied leaf conversion function.
type casterRule struct {
	fn      reflect.Value
	src     reflect.Type
	name    string
	hasBool bool
	hasErr  bool
}

// parseCaster inspects the provided function and wraps it as a rule if it is
// a valid caster function.
//
// Supported shapes:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
func parseCaster(fn any) (*casterRule, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, ErrCasterIsNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 {
		return nil, ErrIsNotACaster
	}

	fnPC := runtime.FuncForPC(fnVal.Pointer())
	alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))

	rule := &casterRule{
		fn:   fnVal,
		src:  fnType.In(0),
		name: utils.Second(path.Split(alias)) + "." + name,
	}

	switch fnType.NumOut() {
	default:
		return nil, ErrIsNotACaster

	case 1:
		return rule, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return nil, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			rule.hasBool = true
		case last.Implements(errType):
			rule.hasErr = true
		}

		return rule, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !terr.Implements(errType) {
			return nil, ErrIsNotACaster
		}

		rule.hasBool = true
		rule.hasErr = true

		return rule, nil
	}
}

func (r *casterRule) Convert(sch *Schema, ctx *Context, _ string, src source.Value) (any, error) {
	raw := src.Raw()
	if raw == nil {
		return nil, malformed(ctx, r.src.String(), src)
	}

	in := reflect.ValueOf(raw)
	if !in.Type().AssignableTo(r.src) {
		coerced, err := r.coerce(sch, raw)
		if err != nil {
			return nil, wrapPath(ctx, err)
		}

		in = coerced
	}

	outs := r.fn.Call([]reflect.Value{in})

	i := 1
	if r.hasBool {
		if !outs[i].Bool() {
			return nil, wrapPath(ctx, fmt.Errorf("%w: %s(%v)", ErrCasterRejected, r.name, raw))
		}

		i++
	}

	if r.hasErr {
		if callErr, _ := outs[i].Interface().(error); callErr != nil {
			return nil, wrapPath(ctx, fmt.Errorf("%s: %w", r.name, callErr))
		}
	}

	return outs[0].Interface(), nil
}

// coerce adapts a decoded scalar to the caster's input type, covering width
// differences (yaml ints are int, casters may take int64) and named scalar
// types.
func (r *casterRule) coerce(sch *Schema, raw any) (reflect.Value, error) {
	dk := primitive.FromReflectKind(r.src.Kind())
	sk := primitive.FromGoValue(raw)
	if dk == 0 || sk == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %T to %s", primitive.ErrNotScalar, raw, r.src)
	}

	cast, err := primitive.Cast(raw, dk, widen(sch.allowed, sk, dk))
	if err != nil {
		return reflect.Value{}, err
	}

	v := reflect.ValueOf(cast)
	if !v.Type().AssignableTo(r.src) {
		v = v.Convert(r.src)
	}

	return v, nil
}
