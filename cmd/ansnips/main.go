package main

import "github.com/ahmednagradev/ansnips/internal/cmd"

func main() {
	cmd.Execute()
}
