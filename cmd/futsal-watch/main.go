package main

import "github.com/pfrederiksen/futsal-watch/internal/cli"

func main() {
	cli.Execute()
}
