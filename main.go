package main

import "github.com/selimozcann/oglink/cmd"

func main() {
	cmd.Execute()
}
