package line_test

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/line"
)

func ExampleWindow() {
	w := line.Window(1334.5323, -100, 100)
	fmt.Printf("%.3f %.3f\n", w[0], w[1])
	// Output:
	// 1334.087 1334.977
}

func ExampleList_Species() {
	fmt.Println(line.COSFUV(100).Species())
	// Output:
	// [C II C III N V O I Si II Si III Si IV]
}
