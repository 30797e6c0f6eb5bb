package primitive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scope-caster/options"
	"scope-caster/primitive"
)

func TestCastNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		dst     primitive.KindEnum
		allowed options.CategoryEnum
		want    any
		wantErr error
	}{
		{"identity int", 42, primitive.KindInt, options.CategoryNone, 42, nil},
		{"identity string", "x", primitive.KindString, options.CategoryNone, "x", nil},
		{"identity bool", true, primitive.KindBool, options.CategoryNone, true, nil},
		{"safe narrowing", 42, primitive.KindInt32, options.CategorySafeNumber, int32(42), nil},
		{"safe widening", int32(-7), primitive.KindInt64, options.CategorySafeNumber, int64(-7), nil},
		{"narrowing disallowed", 42, primitive.KindInt32, options.CategoryNone, nil, primitive.ErrCategoryDisallowed},
		{"narrowing overflow", 300, primitive.KindInt8, options.CategorySafeNumber, nil, primitive.ErrOutOfRange},
		{"negative to unsigned", -1, primitive.KindUint32, options.CategorySafeNumber, nil, primitive.ErrOutOfRange},
		{"int to float", 5, primitive.KindFloat64, options.CategorySafeNumber, float64(5), nil},
		{"whole float to int", 5.0, primitive.KindInt, options.CategorySafeNumber, 5, nil},
		{"fractional float to int safe", 5.5, primitive.KindInt, options.CategorySafeNumber, nil, primitive.ErrOutOfRange},
		{"fractional float to int unsafe", 5.5, primitive.KindInt, options.CategoryUnsafeNumber, 5, nil},
		{"uint64 over int64 to uint64", uint64(1) << 63, primitive.KindUint64, options.CategorySafeNumber, uint64(1) << 63, nil},
		{"uint64 over int64 to int64", uint64(1) << 63, primitive.KindInt64, options.CategorySafeNumber, nil, primitive.ErrOutOfRange},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Cast(tt.value, tt.dst, tt.allowed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCastText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		dst     primitive.KindEnum
		allowed options.CategoryEnum
		want    any
		wantErr error
	}{
		{"text to int", "42", primitive.KindInt, options.CategoryTextNumber, 42, nil},
		{"text to float", "2.5", primitive.KindFloat64, options.CategoryTextNumber, 2.5, nil},
		{"int to text", 42, primitive.KindString, options.CategoryTextNumber, "42", nil},
		{"text number disallowed", "42", primitive.KindInt, options.CategoryNone, nil, primitive.ErrCategoryDisallowed},
		{"text garbage", "forty-two", primitive.KindInt, options.CategoryTextNumber, nil, primitive.ErrBadSyntax},
		{"text overflow", "300", primitive.KindInt8, options.CategoryTextNumber, nil, primitive.ErrOutOfRange},
		{"yes to bool", "yes", primitive.KindBool, options.CategoryTextualBool, true, nil},
		{"off to bool", "OFF", primitive.KindBool, options.CategoryTextualBool, false, nil},
		{"maybe to bool", "maybe", primitive.KindBool, options.CategoryTextualBool, nil, primitive.ErrBadSyntax},
		{"bool to text", true, primitive.KindString, options.CategoryTextualBool, "true", nil},
		{"one to bool", 1, primitive.KindBool, options.CategoryNumericBool, true, nil},
		{"two to bool", 2, primitive.KindBool, options.CategoryNumericBool, nil, primitive.ErrOutOfRange},
		{"bool to int", false, primitive.KindInt, options.CategoryNumericBool, 0, nil},
		{"struct is not scalar", struct{}{}, primitive.KindInt, options.CategoryAll, nil, primitive.ErrNotScalar},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Cast(tt.value, tt.dst, tt.allowed)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
