package main

import (
	"spellcast/internal/cli"
)

func main() {
	cli.Execute()
}
