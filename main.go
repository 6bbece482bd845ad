package main

import (
	"github.com/graphtools/graphtools/cmd"
)

func main() {
	cmd.Execute()
}
