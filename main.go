package main

import "bookstand/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
