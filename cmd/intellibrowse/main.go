package main

import "github.com/diogo/intellibrowse/internal/commands"

func main() {
	commands.Execute()
}
