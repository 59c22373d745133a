package main

import "github.com/philipparndt/boxmod/cmd"

func main() {
	cmd.Execute()
}
