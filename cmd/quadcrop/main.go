package main

import "github.com/framelift/quadcrop/cmd/quadcrop/cmd"

func main() {
	cmd.Execute()
}
