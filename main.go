package main

import "github.com/pitwall/pitwall/cmd"

func main() {
	cmd.Execute()
}
