package convert

import (
	"fmt"
	"reflect"
	"strings"

	"scope-caster/ident"
	"scope-caster/options"
	"scope-caster/primitive"
	"scope-caster/source"
)

// Args selects how an identifier field interacts with the registry.
// New declares a fresh identifier, Track additionally exports it to the
// tracked store, Import resolves and binds the referenced subject for the
// remainder of the enclosing conversion. None of the three set means a plain
// reference.
type Args struct {
	New    bool
	Track  bool
	Import bool
}

// FieldRule describes one field of a StructRule.
type FieldRule struct {
	Name     string       // target field: Go field name of the struct, map key otherwise
	Source   string       // document field; defaults to Name
	Rule     string       // rule tag applied to the value; unused for identifier fields
	Domain   ident.Domain // non-zero marks an identifier field
	Args     Args
	Optional bool // absent or null maps to the zero value, no context mutation
	Seq      bool // apply the rule element-wise over a sequence, in source order
	Map      bool // apply the rule value-wise over a mapping, key-sorted
	Default  any  // substituted for an absent field before Optional applies
}

// StructRule converts a mapping field by field, strictly in declared order:
// each field's scope mutations complete before the next field begins.
// Entering the rule pushes a scope layer tagged with the rule's registered
// tag; that layer, and anything pushed below it by imports, is unwound on
// every exit path.
//
// With Target set to a zero value of a struct, fields are assigned via
// reflection and the populated struct is returned. With a nil Target the
// result is a map[string]any.
type StructRule struct {
	Target any
	Fields []FieldRule
}

func (r *StructRule) Convert(sch *Schema, ctx *Context, tag string, src source.Value) (any, error) {
	if src.Kind() != source.KindMapping {
		return nil, malformed(ctx, "mapping", src)
	}

	mark := ctx.stack.Mark()
	defer ctx.stack.Unwind(mark)

	ctx.stack.Push(tag)

	target, typed := r.newTarget()

	var out map[string]any
	if !typed {
		out = make(map[string]any, len(r.Fields))
	}

	for i := range r.Fields {
		f := &r.Fields[i]

		val, skip, err := convertField(sch, ctx, f, src)
		if err != nil {
			return nil, err
		}

		if skip {
			continue
		}

		if typed {
			if err := setField(target, f.Name, val, sch.allowed); err != nil {
				return nil, wrapPath(ctx, err)
			}
		} else {
			out[f.Name] = val
		}
	}

	if typed {
		return target.Interface(), nil
	}

	return out, nil
}

func (r *StructRule) newTarget() (reflect.Value, bool) {
	if r.Target == nil {
		return reflect.Value{}, false
	}

	t := reflect.TypeOf(r.Target)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return reflect.New(t).Elem(), true
}

func convertField(sch *Schema, ctx *Context, f *FieldRule, src source.Value) (val any, skip bool, err error) {
	name := f.Source
	if name == "" {
		name = f.Name
	}

	fv, present := src.Field(name)
	if !present || fv.IsNil() {
		if f.Default != nil {
			return f.Default, false, nil
		}

		if f.Optional {
			return nil, true, nil
		}

		ctx.pushPath(name)
		err = malformed(ctx, "required field", fv)
		ctx.popPath()

		return nil, false, err
	}

	ctx.pushPath(name)
	val, err = convertValue(sch, ctx, f, fv)
	ctx.popPath()

	return val, false, err
}

func convertValue(sch *Schema, ctx *Context, f *FieldRule, fv source.Value) (any, error) {
	switch {
	default:
		return convertOne(sch, ctx, f, fv)

	case f.Seq:
		items, err := fv.Items()
		if err != nil {
			return nil, malformed(ctx, "sequence", fv)
		}

		out := make([]any, 0, len(items))
		for i, item := range items {
			ctx.pushPath(fmt.Sprintf("[%d]", i))
			v, err := convertOne(sch, ctx, f, item)
			ctx.popPath()

			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil

	case f.Map:
		entries, err := fv.Entries()
		if err != nil {
			return nil, malformed(ctx, "mapping", fv)
		}

		out := make(map[string]any, len(entries))
		for _, e := range entries {
			ctx.pushPath(e.Key)
			v, err := convertOne(sch, ctx, f, e.Value)
			ctx.popPath()

			if err != nil {
				return nil, err
			}

			out[e.Key] = v
		}

		return out, nil
	}
}

func convertOne(sch *Schema, ctx *Context, f *FieldRule, fv source.Value) (any, error) {
	if !f.Domain.IsZero() {
		return convertID(ctx, f, fv)
	}

	return sch.apply(ctx, f.Rule, fv)
}

func convertID(ctx *Context, f *FieldRule, fv source.Value) (any, error) {
	name, nameErr := fv.AsString()
	if nameErr != nil {
		return nil, malformed(ctx, "identifier string", fv)
	}

	reg := ident.New(ctx.Stack(), f.Domain)

	var (
		h   ident.Handle
		err error
	)

	switch {
	case f.Args.Import:
		h, err = reg.Import(name)
	case f.Args.New && f.Args.Track:
		h, err = reg.DeclareTracked(name)
	case f.Args.New:
		h, err = reg.Declare(name)
	default:
		h, err = reg.Resolve(name)
	}

	if err != nil {
		return nil, wrapPath(ctx, err)
	}

	return h, nil
}

func setField(target reflect.Value, name string, v any, allowed options.CategoryEnum) error {
	fv := target.FieldByName(name)
	if !fv.IsValid() {
		fv = target.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	}

	if !fv.IsValid() || !fv.CanSet() {
		return fmt.Errorf("target %s has no settable field %q", target.Type(), name)
	}

	return assign(fv, v, allowed)
}

// assign places a converted value into a target location, adapting
// containers element-wise and scalars via checked casts.
func assign(dst reflect.Value, v any, allowed options.CategoryEnum) error {
	if v == nil {
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), v, allowed); err != nil {
			return err
		}

		dst.Set(p)

		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)

		return nil
	}

	switch dst.Kind() {
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
		}

		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), item, allowed); err != nil {
				return err
			}
		}

		dst.Set(out)

		return nil

	case reflect.Map:
		entries, ok := v.(map[string]any)
		if !ok || dst.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
		}

		out := reflect.MakeMap(dst.Type())
		for key, item := range entries {
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := assign(ev, item, allowed); err != nil {
				return err
			}

			out.SetMapIndex(reflect.ValueOf(key).Convert(dst.Type().Key()), ev)
		}

		dst.Set(out)

		return nil
	}

	dk := primitive.FromReflectKind(dst.Kind())
	sk := primitive.FromGoValue(v)
	if dk == 0 || sk == 0 {
		return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
	}

	cast, err := primitive.Cast(v, dk, widen(allowed, sk, dk))
	if err != nil {
		return err
	}

	dst.Set(reflect.ValueOf(cast).Convert(dst.Type()))

	return nil
}
