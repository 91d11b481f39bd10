package main

import (
	"os"

	"github.com/hsbacot/jmsctl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
