package main

import (
	"os"

	"github.com/agoda-com/codecompass/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
