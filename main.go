package main

import "foreplan/cmd"

func main() {
	cmd.Execute()
}
