package main

import "github.com/kailas-cloud/osintinfo/internal/cli"

func main() {
	cli.Execute()
}
