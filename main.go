package main

import (
	"yanoback/cmd"
)

func main() {
	cmd.Execute()
}
