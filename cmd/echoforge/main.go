package main

import "echoforge/internal/app/runner"

func main() {
	runner.Run()
}
