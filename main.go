package main

import "github.com/bz888/deepcli/cmd"

func main() {
	cmd.Execute()
}
