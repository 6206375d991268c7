package main

import (
	"urlfeatures/cmd"
)

func main() {
	cmd.Execute()
}
