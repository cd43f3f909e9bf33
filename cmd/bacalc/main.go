package main

import "github.com/xtding233/ba-companion/internal/cli"

func main() {
	cli.Execute()
}
