package main

import "controller-migrate/cmd"

func main() {
	cmd.Execute()
}
