package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/arith/lang"
)

func ExampleRun() {
	v, err := lang.Run(context.Background(), "def a = 5; def b = a*2; a+b")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(lang.FormatValue(v))
	// Output: 15
}

func ExampleFormatError() {
	const src = "def a = 1;\na / (a - 1)"

	_, err := lang.Run(context.Background(), src)
	if errors.Is(err, lang.ErrDivisionByZero) {
		fmt.Print(lang.FormatError(err, src))
	}
	// Output:
	// eval error at line 2, column 3: division by zero
	//   2 | a / (a - 1)
	//         ^
}

func ExampleProgram_Format() {
	prog, err := lang.Parse(context.Background(), "def x=(1+2);(x*(3))-((4-5))")
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = prog.Format(context.Background(), os.Stdout)
	// Output:
	// def x = 1 + 2;
	// x * 3 - (4 - 5)
}

func ExampleCompile() {
	ctx := context.Background()

	prog, _ := lang.Parse(ctx, "def r = 2; r * r * 3")

	compiled, err := lang.Compile(ctx, prog)
	if err != nil {
		fmt.Println(err)

		return
	}

	v, _ := compiled.Run(ctx)
	fmt.Println(compiled.Source())
	fmt.Println(v)
	// Output:
	// let d0 = k0; ((d0 * d0) * k1)
	// 12
}
