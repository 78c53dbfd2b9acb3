package main

import "github.com/gitboard/gitboard/cmd"

func main() {
	cmd.Execute()
}
