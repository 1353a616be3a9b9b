package main

import (
	_ "go.uber.org/automaxprocs"
	"ru-ticket/cmd"
)

func main() {
	cmd.Start()
}
