package main

import "github.com/martkit/martkit/cmd"

func main() {
	cmd.Execute()
}
