package main

import "github.com/snapcourier/snapcourier/cmd"

func main() {
	cmd.Execute()
}
