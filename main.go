package main

import "github.com/ingo-eichhorst/testselect/cmd"

func main() {
	cmd.Execute()
}
