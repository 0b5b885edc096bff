package main

import (
	"github.com/msdgwzhy6/dmix/cmd"
)

func main() {
	cmd.Execute()
}
