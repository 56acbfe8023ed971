package main

import (
	"lyricsync/cmd"
)

func main() {
	cmd.Execute()
}
