package main

import "dbschema-spec/internal/cli"

func main() {
	cli.Execute()
}
