package main

import "github.com/rithankoushik/fitz-cli/cmd/fitz"

func main() {
	fitz.Execute()
}
