package main

import "github.com/angelofallars/statmaster/cmd"

func main() {
	cmd.Execute()
}
