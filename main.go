package main

import "github.com/KaramelBytes/dana-cli/cmd"

func main() {
	cmd.Execute()
}
