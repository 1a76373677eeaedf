package main

import "anigo/cmd"

func main() {
	cmd.Execute()
}
