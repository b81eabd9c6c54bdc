package main

import "github.com/andrescamacho/geflip-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
