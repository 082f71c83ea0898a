package main

import "github.com/clinpipe/clinpipe/internal/cli"

func main() {
	cli.Execute()
}
