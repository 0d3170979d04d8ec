package main

import (
	"github.com/quietbit/cellar/cmd"
)

func main() {
	cmd.Execute()
}
