package main

import "github.com/tsiemens/capgains/cmd"

func main() {
	cmd.Execute()
}
