package main

import "mylibrary/cmd/mylibrary-cli/cmd"

func main() {
	cmd.Execute()
}
