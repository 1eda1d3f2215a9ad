package main

import "github.com/tanq16/mediafire-dl/cmd"

func main() {
	cmd.Execute()
}
