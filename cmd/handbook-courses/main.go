package main

import "github.com/pfrederiksen/handbook-courses/internal/cli"

func main() {
	cli.Execute()
}
