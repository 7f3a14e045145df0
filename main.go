package main

import "github.com/cardwise/cardwise/cmd"

func main() {
	cmd.Execute()
}
