package main

import "github.com/thereayou/agora/cmd/server"

func main() {
	server.NewServer().Run()
}
