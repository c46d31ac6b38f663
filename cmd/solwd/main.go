package main

import (
	"fmt"
	"os"

	"github.com/solwidget/solw/cmd"
)

var version string

func main() {
	if err := cmd.RunDaemon(version); err != nil {
		fmt.Println("solwd:", err.Error())
		os.Exit(1)
	}
}
