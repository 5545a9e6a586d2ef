package main

import "github.com/turbolytics/rowset/internal/cmd"

func main() {
	cmd.Execute()
}
