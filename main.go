package main

import "tutorlink-backend/cmd"

func main() {
	cmd.Run()
}
