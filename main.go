package main

import "github.com/yearwrap/yearwrap/cmd"

func main() {
	cmd.Execute()
}
