package main

import "github.com/AlcMaple/bridge-inspection-backend/internal/cli"

func main() {
	cli.Execute()
}
