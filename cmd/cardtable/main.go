package main

import "github.com/kmicah/cardtable-go/internal/cli"

func main() {
	cli.Execute()
}
