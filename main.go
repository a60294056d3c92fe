package main

import "github.com/Tiliavir/pto/cmd"

func main() {
	cmd.Execute()
}
