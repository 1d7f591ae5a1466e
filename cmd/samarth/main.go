// Command samarth is a terminal client for the Samarth question answering service.
package main

import "github.com/samarth-qa/samarth/internal/commands"

func main() {
	commands.Execute()
}
