package main

import "coscindex/cmd/coscindex-cli/cmd"

func main() {
	cmd.Execute()
}
