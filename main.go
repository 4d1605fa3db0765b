package main

import "github.com/CraigKelly/metro/cmd"

func main() {
	cmd.Execute()
}
