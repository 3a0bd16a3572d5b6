package main

import "mxfind/cmd/mxfind-cli/cmd"

func main() {
	cmd.Execute()
}
