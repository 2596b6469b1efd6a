package main

import (
	"flag"

	"coursehub/internal/server"
)

func main() {
	flag.Parse()
	server.Start()
}
