package main

import "github.com/vietddude/movies/internal/cli"

func main() {
	cli.Execute()
}
