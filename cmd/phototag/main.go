package main

import "phototag/internal/cli"

func main() {
	cli.Main()
}
