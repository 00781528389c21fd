package main

import "github.com/ByLCY/placard/cmd"

func main() {
	cmd.Execute()
}
