package main

import "github.com/qobs-build/wxbuild/cmd"

func main() {
	cmd.Execute()
}
