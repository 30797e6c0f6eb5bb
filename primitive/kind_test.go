package primitive_test

import (
	"fmt"
	"reflect"

	"scope-caster/primitive"
)

func Example() {
	type Empty struct{}

	fmt.Println(primitive.FromReflectKind(reflect.TypeOf(int(0)).Kind()))
	fmt.Println(primitive.FromReflectKind(reflect.TypeOf("").Kind()))
	fmt.Println(primitive.FromGoValue(uint16(7)))
	fmt.Println(primitive.FromGoValue(3.5))
	fmt.Println(primitive.FromGoValue(Empty{}))
	fmt.Println(primitive.FromGoValue(nil))
	// Output:
	// KindInt
	// KindString
	// KindUint16
	// KindFloat64
	// KindEnum(0)
	// KindEnum(0)
}
