package main

import "github.com/gastaro/gastaro/cmd"

func main() {
	cmd.Execute()
}
