package main

import "github.com/forPelevin/gamerec/internal/cli"

func main() {
	cli.Main()
}
