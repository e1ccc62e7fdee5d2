package main

import "github.com/osokin/tradegram/internal/cli"

func main() {
	cli.Run()
}
