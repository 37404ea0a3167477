package main

import "github.com/mcoot/gomokuclient-go/internal/cli"

func main() {
	cli.Execute()
}
