package primitive

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"scope-caster/options"
	"scope-caster/utils"
)

var (
	ErrNotScalar          = errors.New("value is not a primitive scalar")
	ErrCategoryDisallowed = errors.New("conversion category is not enabled")
	ErrOutOfRange         = errors.New("value out of range for destination kind")
	ErrBadSyntax          = errors.New("cannot parse textual value")
)

// Cast converts the scalar v to the destination kind,
// permitting only the coercion categories listed in allowed.
// Identity conversions (same kind to same kind) are always permitted.
//
// The returned value carries the exact Go type of the destination kind
// (KindInt32 yields int32, KindString yields string, and so on).
func Cast(v any, dst KindEnum, allowed options.CategoryEnum) (any, error) {
	src := FromGoValue(v)
	if src == 0 {
		return nil, fmt.Errorf("%w: %T", ErrNotScalar, v)
	}

	switch {
	default:
		return nil, fmt.Errorf("%w: %s to %s", ErrNotScalar, src, dst)

	case src.IsNumber() && dst.IsNumber():
		return castNumber(v, src, dst, allowed)

	case src == KindString && dst.IsNumber():
		return castTextToNumber(v.(string), dst, allowed)

	case src.IsNumber() && dst == KindString:
		return castNumberToText(v, src, allowed)

	case src.IsInteger() && dst == KindBool:
		return castIntToBool(v, allowed)

	case src == KindBool && dst.IsInteger():
		if !allowed.Has(options.CategoryNumericBool) {
			return nil, fmt.Errorf("%w: %s to %s", ErrCategoryDisallowed, src, dst)
		}

		n := int64(0)
		if v.(bool) {
			n = 1
		}
		return retypeInt(n, dst)

	case src == KindString && dst == KindBool:
		return castTextToBool(v.(string), allowed)

	case src == KindBool && dst == KindString:
		if !allowed.Has(options.CategoryTextualBool) {
			return nil, fmt.Errorf("%w: %s to %s", ErrCategoryDisallowed, src, dst)
		}

		return strconv.FormatBool(v.(bool)), nil

	case src == KindBool && dst == KindBool:
		return v.(bool), nil

	case src == KindString && dst == KindString:
		return v.(string), nil
	}
}

func castNumber(v any, src, dst KindEnum, allowed options.CategoryEnum) (any, error) {
	if src != dst && !allowed.Has(options.CategorySafeNumber) && !allowed.Has(options.CategoryUnsafeNumber) {
		return nil, fmt.Errorf("%w: %s to %s", ErrCategoryDisallowed, src, dst)
	}

	switch {
	default:
		return nil, fmt.Errorf("%w: %s to %s", ErrNotScalar, src, dst)

	case src.IsSigned():
		return retypeInt(asInt64(v), dst)

	case src.IsUnsigned():
		u := asUint64(v)
		if u > math.MaxInt64 {
			if !dst.IsUnsigned() {
				return nil, fmt.Errorf("%w: %d to %s", ErrOutOfRange, u, dst)
			}

			return retypeUint(u, dst)
		}

		return retypeInt(int64(u), dst)

	case src.IsFloat():
		f := asFloat64(v)
		if dst.IsFloat() {
			return retypeFloat(f, dst, allowed)
		}

		if f != math.Trunc(f) && !allowed.Has(options.CategoryUnsafeNumber) {
			return nil, fmt.Errorf("%w: fractional %v to %s", ErrOutOfRange, f, dst)
		}

		f = math.Trunc(f)
		if !utils.IsInRange(math.MinInt64, f, math.MaxInt64) {
			return nil, fmt.Errorf("%w: %v to %s", ErrOutOfRange, f, dst)
		}

		return retypeInt(int64(f), dst)
	}
}

func castTextToNumber(s string, dst KindEnum, allowed options.CategoryEnum) (any, error) {
	if !allowed.Has(options.CategoryTextNumber) {
		return nil, fmt.Errorf("%w: %s to %s", ErrCategoryDisallowed, KindString, dst)
	}

	if dst.IsFloat() {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as %s", ErrBadSyntax, s, dst)
		}

		return retypeFloat(f, dst, allowed|options.CategoryUnsafeNumber)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if u, uerr := strconv.ParseUint(s, 10, 64); uerr == nil {
			return retypeUint(u, dst)
		}

		return nil, fmt.Errorf("%w: %q as %s", ErrBadSyntax, s, dst)
	}

	return retypeInt(n, dst)
}

func castNumberToText(v any, src KindEnum, allowed options.CategoryEnum) (any, error) {
	if !allowed.Has(options.CategoryTextNumber) {
		return nil, fmt.Errorf("%w: %s to %s", ErrCategoryDisallowed, src, KindString)
	}

	switch {
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotScalar, src)
	case src.IsSigned():
		return strconv.FormatInt(asInt64(v), 10), nil
	case src.IsUnsigned():
		return strconv.FormatUint(asUint64(v), 10), nil
	case src.IsFloat():
		return strconv.FormatFloat(asFloat64(v), 'g', -1, 64), nil
	}
}

func castIntToBool(v any, allowed options.CategoryEnum) (any, error) {
	if !allowed.Has(options.CategoryNumericBool) {
		return nil, fmt.Errorf("%w: integer to %s", ErrCategoryDisallowed, KindBool)
	}

	switch asInt64(v) {
	default:
		return nil, fmt.Errorf("%w: only 0 and 1 map to %s", ErrOutOfRange, KindBool)
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
}

func castTextToBool(s string, allowed options.CategoryEnum) (any, error) {
	if !allowed.Has(options.CategoryTextualBool) {
		return nil, fmt.Errorf("%w: %s to %s", ErrCategoryDisallowed, KindString, KindBool)
	}

	switch strings.ToLower(s) {
	default:
		return nil, fmt.Errorf("%w: %q as %s", ErrBadSyntax, s, KindBool)
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
}

// retypeInt narrows n to the destination kind with a range check.
func retypeInt(n int64, dst KindEnum) (any, error) {
	if dst.IsFloat() {
		// 64-bit floats represent all 53-bit integers exactly; wider values
		// round, which the caller has already authorized via castNumber.
		if dst == KindFloat32 {
			return float32(n), nil
		}
		return float64(n), nil
	}

	if dst.IsUnsigned() {
		if n < 0 {
			return nil, fmt.Errorf("%w: %d to %s", ErrOutOfRange, n, dst)
		}

		return retypeUint(uint64(n), dst)
	}

	lo, hi := signedRange(dst)
	if !utils.IsInRange(lo, n, hi) {
		return nil, fmt.Errorf("%w: %d to %s", ErrOutOfRange, n, dst)
	}

	switch dst {
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotScalar, dst)
	case KindInt:
		return int(n), nil
	case KindInt8:
		return int8(n), nil
	case KindInt16:
		return int16(n), nil
	case KindInt32:
		return int32(n), nil
	case KindInt64:
		return n, nil
	}
}

func retypeUint(u uint64, dst KindEnum) (any, error) {
	if !dst.IsUnsigned() {
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d to %s", ErrOutOfRange, u, dst)
		}

		return retypeInt(int64(u), dst)
	}

	if dst != KindUint64 && dst != KindUint {
		hi := uint64(1)<<dst.Bits() - 1
		if u > hi {
			return nil, fmt.Errorf("%w: %d to %s", ErrOutOfRange, u, dst)
		}
	}

	switch dst {
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotScalar, dst)
	case KindUint:
		if uint64(uint(u)) != u {
			return nil, fmt.Errorf("%w: %d to %s", ErrOutOfRange, u, dst)
		}
		return uint(u), nil
	case KindUint8:
		return uint8(u), nil
	case KindUint16:
		return uint16(u), nil
	case KindUint32:
		return uint32(u), nil
	case KindUint64:
		return u, nil
	}
}

func retypeFloat(f float64, dst KindEnum, allowed options.CategoryEnum) (any, error) {
	if dst == KindFloat64 {
		return f, nil
	}

	narrowed := float32(f)
	if float64(narrowed) != f && !allowed.Has(options.CategoryUnsafeNumber) {
		return nil, fmt.Errorf("%w: %v to %s loses precision", ErrOutOfRange, f, dst)
	}

	return narrowed, nil
}

func signedRange(dst KindEnum) (lo, hi int64) {
	switch dst {
	default:
		return math.MinInt64, math.MaxInt64
	case KindInt8:
		return math.MinInt8, math.MaxInt8
	case KindInt16:
		return math.MinInt16, math.MaxInt16
	case KindInt32:
		return math.MinInt32, math.MaxInt32
	case KindInt:
		return math.MinInt, math.MaxInt
	}
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	default:
		panic("not a signed integer scalar")
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	default:
		panic("not an unsigned integer scalar")
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
}

func asFloat64(v any) float64 {
	switch f := v.(type) {
	default:
		panic("not a float scalar")
	case float32:
		return float64(f)
	case float64:
		return f
	}
}
