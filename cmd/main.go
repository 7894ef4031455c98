package main

import (
	api "github.com/DenisSivko/hw05-final"
)

func main() {
	api.Run()
}
