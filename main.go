package main

import "emosense/cmd"

// @title emosense API
// @version 1.0
// @description Emotion-detection platform for clinical practice.
// @BasePath /
func main() {
	cmd.Execute()
}
