package util

import "fmt"

var debug bool = false

func Debug[T any](s T) {
	if debug {
		fmt.Println(s)
	}
}
