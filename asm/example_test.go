package asm_test

import (
	"fmt"

	"github.com/nibiru-systems/rvasm/asm"
)

// A bare-metal program that loads a constant into a0 and issues an
// ecall. 42 fits addi's 12-bit immediate, so li shrinks to a single
// instruction instead of the usual lui+addi pair.
func ExampleAssemble() {
	img, err := asm.Assemble(`
_start:
    li a0, 42
    ecall
`)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%x\n", img)
	// Output:
	// 1305a00273000000
}

// WithCompress enables RVC substitution: an addi whose immediate fits
// six signed bits and whose source is x0 becomes a 2-byte c.li.
func ExampleWithCompress() {
	img, err := asm.Assemble("addi a0, x0, 1\n", asm.WithCompress(true))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(img))
	// Output:
	// 2
}
