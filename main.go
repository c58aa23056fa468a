package main

import "github.com/papapumpkin/supernova/cmd"

func main() {
	cmd.Execute()
}
