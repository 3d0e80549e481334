package main

import "usersvc/cmd/client/cmd"

func main() {
	cmd.Execute()
}
