package main

import "github.com/vuhoang/logsink/cmd"

func main() {
	cmd.Execute()
}
