package main

import "github.com/pfrederiksen/mtg-events/internal/cli"

func main() {
	cli.Execute()
}
