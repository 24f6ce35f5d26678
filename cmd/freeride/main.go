package main

import "github.com/lemony312/FreeRide/internal/cli"

func main() {
	cli.Execute()
}
