package main

import "fslcmd/internal/cli"

func main() {
	cli.Execute()
}
