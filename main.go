package main

import "github.com/wolfitem/newsprompt/cmd"

func main() {
	cmd.Execute()
}
