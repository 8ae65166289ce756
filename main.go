package main

import "github.com/example/levelup/cmd"

func main() {
	cmd.Execute()
}
