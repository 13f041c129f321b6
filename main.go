package main

import "github.com/mahanhrgowda/time-capsule/cmd"

func main() {
	cmd.Execute()
}
