package main

import "github.com/rpgo/wealthsim/cmd"

func main() {
	cmd.Execute()
}
