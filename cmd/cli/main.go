package main

import "github.com/ezseobasics/ezseo/internal/cli"

func main() {
	cli.Execute()
}
