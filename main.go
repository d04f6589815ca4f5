package main

import "github.com/cosmic-utils/bingwall/cmd"

func main() {
	cmd.Execute()
}
