package main

import "github.com/mcoot/fluency-harness/internal/cli"

func main() {
	cli.Execute()
}
