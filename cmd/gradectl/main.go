package main

import (
	"os"

	"gradeassist/internal/gradectl"
)

func main() { os.Exit(gradectl.Main()) }
